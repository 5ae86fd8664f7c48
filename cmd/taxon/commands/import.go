package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/config"
)

// ImportCmd merges an exported document into the working taxonomy.
var ImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import classes from an exported document",
	Long: `import — Merge an exported taxonomy document into the working one.

Every class in the document is validated first: its definition must
rebuild cleanly and its stored content hash must match a recomputation.
Any failure rejects the whole document and leaves the taxonomy untouched.

Examples:
  taxon import colleague-taxonomy.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	ImportCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, path, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	before := reg.Len()
	if err := reg.ImportFromFile(args[0]); err != nil {
		return err
	}
	if err := saveRegistry(reg, path); err != nil {
		return err
	}

	pterm.Success.Printf("Imported %d classes from %s (%d total)\n",
		reg.Len()-before, args[0], reg.Len())
	return nil
}
