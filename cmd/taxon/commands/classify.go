package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/config"
)

var (
	classifyAllScores  bool
	classifyDiagnostic bool
)

// ClassifyCmd scores an artifact feature file against the taxonomy.
var ClassifyCmd = &cobra.Command{
	Use:   "classify ARTIFACT_FILE",
	Short: "Score an artifact feature file against the taxonomy",
	Long: `classify — Score one artifact against every registered class.

The artifact file is a flat JSON or YAML document of measurement name to
number or boolean. Results are ranked by confidence; multiple classes may
legitimately claim membership, and ties are yours to interpret.

Examples:
  taxon classify axe974.json
  taxon classify axe974.yaml --all-scores --diagnostic`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	ClassifyCmd.Flags().BoolVar(&classifyAllScores, "all-scores", false, "show every class, not just the best match")
	ClassifyCmd.Flags().BoolVar(&classifyDiagnostic, "diagnostic", false, "show the per-parameter breakdown of the best match")
	ClassifyCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := artifact.LoadFile(args[0])
	if err != nil {
		return err
	}

	reg, _, err := openRegistry(cfg)
	if err != nil {
		return err
	}

	results := reg.ClassifyAll(a)
	if len(results) == 0 {
		pterm.Warning.Println("Taxonomy is empty; nothing to classify against")
		return nil
	}

	pterm.Printf("Artifact %s against %d classes:\n\n", a.ID, len(results))
	if classifyAllScores {
		renderResults(results)
	} else {
		renderResults(results[:1])
	}

	best := results[0]
	if classifyDiagnostic {
		pterm.Printf("\nDiagnostic for %s:\n\n", best.ClassID)
		renderDiagnostic(best)
	}

	if best.IsMember {
		pterm.Success.Printf("Best match: %s (%.2f%%)\n", best.ClassName, best.Confidence*100)
	} else {
		pterm.Warning.Printf("No class claims membership; closest is %s (%.2f%%)\n",
			best.ClassName, best.Confidence*100)
	}
	return nil
}
