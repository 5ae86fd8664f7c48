package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/config"
)

// ListCmd prints the registered classes in registration order.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered classes",
	Long: `list — Print every registered class in registration order.

Examples:
  taxon list
  taxon list --taxonomy dig-site.json`,
	RunE: runList,
}

func init() {
	ListCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, _, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	defs := reg.List()
	if len(defs) == 0 {
		pterm.Warning.Println("Taxonomy is empty; run taxon init or taxon define")
		return nil
	}

	data := pterm.TableData{{"Class", "Name", "Hash", "Params", "Gates", "Threshold"}}
	for _, def := range defs {
		data = append(data, []string{
			def.ClassID,
			def.Name,
			def.ContentHash,
			fmt.Sprintf("%d", len(def.Morphometric)+len(def.Technological)),
			fmt.Sprintf("%d", len(def.OptionalFeatures)),
			fmt.Sprintf("%.2f", def.ConfidenceThreshold),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
