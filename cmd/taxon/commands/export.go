package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/config"
)

// ExportCmd writes the taxonomy to a portable document.
var ExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export the taxonomy to a portable JSON document",
	Long: `export — Write the full taxonomy, lineage and audit trail included,
to a JSON document another taxon instance can import.

Examples:
  taxon export site-taxonomy.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	ExportCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, _, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	if err := reg.ExportToFile(args[0]); err != nil {
		return err
	}
	pterm.Success.Printf("Exported %d classes to %s\n", reg.Len(), args[0])
	return nil
}
