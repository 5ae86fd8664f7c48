package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/config"
	"github.com/montelab/taxon/taxon"
)

// ShowCmd prints one class definition in full.
var ShowCmd = &cobra.Command{
	Use:   "show CLASS_ID",
	Short: "Show one class definition in full",
	Long: `show — Print a class definition: parameters, gates, lineage.

Examples:
  taxon show savignano-type
  taxon show savignano-type_v2`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	ShowCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, _, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	def, err := reg.Get(args[0])
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printf("%s (%s)", def.Name, def.ClassID)
	pterm.Printf("Hash:        %s\n", def.ContentHash)
	pterm.Printf("Threshold:   %.2f\n", def.ConfidenceThreshold)
	pterm.Printf("Created:     %s by %s\n", def.CreatedAt.Format("2006-01-02"), def.CreatedBy)
	if def.Description != "" {
		pterm.Printf("Description: %s\n", def.Description)
	}
	if len(def.ValidatedSamples) > 0 {
		pterm.Printf("Samples:     %s\n", strings.Join(def.ValidatedSamples, ", "))
	}

	supersedes, supersededBy, err := reg.Lineage(def.ClassID)
	if err == nil {
		if supersedes != "" {
			pterm.Printf("Supersedes:  %s\n", supersedes)
		}
		if supersededBy != "" {
			pterm.Printf("Superseded:  by %s\n", supersededBy)
		}
	}

	renderParams("Morphometric parameters", def.Morphometric)
	renderParams("Technological parameters", def.Technological)

	if len(def.OptionalFeatures) > 0 {
		pterm.Println("\nBoolean gates:")
		data := pterm.TableData{{"Gate", "Required"}}
		for _, name := range sortedGateNames(def.OptionalFeatures) {
			data = append(data, []string{name, fmt.Sprintf("%t", def.OptionalFeatures[name])})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return nil
}

func renderParams(title string, params map[string]taxon.Parameter) {
	if len(params) == 0 {
		return
	}
	pterm.Printf("\n%s:\n", title)
	data := pterm.TableData{{"Parameter", "Target", "Range", "Tolerance", "Weight", "Unit"}}
	for _, name := range sortedParamNames(params) {
		p := params[name]
		data = append(data, []string{
			p.Name,
			fmt.Sprintf("%.2f", p.TargetValue),
			fmt.Sprintf("[%.2f, %.2f]", p.MinThreshold, p.MaxThreshold),
			fmt.Sprintf("%.2f", p.Tolerance),
			fmt.Sprintf("%.2f", p.Weight),
			p.Unit,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
