package commands

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/config"
)

var statsChanges bool

// StatsCmd summarizes the taxonomy.
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the taxonomy",
	Long: `stats — Per-class and registry-wide statistics.

Examples:
  taxon stats
  taxon stats --changes`,
	RunE: runStats,
}

func init() {
	StatsCmd.Flags().BoolVar(&statsChanges, "changes", false, "also print the modification audit trail")
	StatsCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, _, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	stats := reg.Stats()
	pterm.Printf("Classes:       %d\n", stats.Classes)
	pterm.Printf("Modifications: %d\n", stats.Modifications)

	if stats.Classes > 0 {
		ids := make([]string, 0, len(stats.PerClass))
		for id := range stats.PerClass {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		data := pterm.TableData{{"Class", "Name", "Params", "Samples", "Threshold"}}
		for _, id := range ids {
			cs := stats.PerClass[id]
			data = append(data, []string{
				id,
				cs.Name,
				fmt.Sprintf("%d", cs.Parameters),
				fmt.Sprintf("%d", cs.ValidatedSamples),
				fmt.Sprintf("%.2f", cs.ConfidenceThreshold),
			})
		}
		pterm.Println()
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}

	if statsChanges {
		changes := reg.Changes()
		if len(changes) == 0 {
			pterm.Info.Println("No modifications recorded")
			return nil
		}
		data := pterm.TableData{{"When", "From", "To", "Operator", "Justification"}}
		for _, rec := range changes {
			data = append(data, []string{
				rec.Timestamp.Format("2006-01-02 15:04"),
				rec.FromClassID,
				rec.ToClassID,
				rec.Operator,
				rec.Justification,
			})
		}
		pterm.Println()
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return nil
}
