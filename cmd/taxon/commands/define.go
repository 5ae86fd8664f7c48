package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/config"
	"github.com/montelab/taxon/taxon"
)

var (
	defineRefsFile  string
	defineClassID   string
	defineTolerance float64
	defineThreshold float64
	defineWeights   []string
)

// DefineCmd derives a class definition from a reference group file.
var DefineCmd = &cobra.Command{
	Use:   "define NAME --refs FILE",
	Short: "Derive a class definition from a reference group",
	Long: `define — Derive a taxonomic class statistically from reference artifacts.

The reference file is a JSON array or YAML list of artifact feature
documents. For every numeric feature present in all reference objects the
class gets a parameter whose target is the group mean, whose hard bounds
are the observed extremes, and whose tolerance is tolerance_factor times
the mean. Boolean features uniform across the group become hard gates.

Examples:
  taxon define "Savignano Type" --refs refs.json
  taxon define "Matrix B" --refs matrix_b.yaml --tolerance 0.10 \
      --weight incavo_larghezza=2.0 --weight length=0.8`,
	Args: cobra.ExactArgs(1),
	RunE: runDefine,
}

func init() {
	DefineCmd.Flags().StringVar(&defineRefsFile, "refs", "", "reference group file (JSON array or YAML list)")
	DefineCmd.Flags().StringVar(&defineClassID, "id", "", "class id (default: slug of NAME)")
	DefineCmd.Flags().Float64Var(&defineTolerance, "tolerance", 0, "tolerance factor (default from config)")
	DefineCmd.Flags().Float64Var(&defineThreshold, "threshold", 0, "confidence threshold (default from config)")
	DefineCmd.Flags().StringArrayVar(&defineWeights, "weight", nil, "per-feature weight, e.g. length=0.8 (repeatable)")
	DefineCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
	DefineCmd.MarkFlagRequired("refs")
}

func runDefine(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	group, err := artifact.LoadGroupFile(defineRefsFile)
	if err != nil {
		return err
	}

	weights, err := parseWeights(defineWeights)
	if err != nil {
		return err
	}

	buildCfg := &taxon.BuildConfig{
		ClassID:             defineClassID,
		Weights:             weights,
		ToleranceFactor:     defineTolerance,
		ConfidenceThreshold: defineThreshold,
		CreatedBy:           cfg.Builder.Operator,
	}
	if buildCfg.ToleranceFactor == 0 {
		buildCfg.ToleranceFactor = cfg.Builder.ToleranceFactor
	}
	if buildCfg.ConfidenceThreshold == 0 {
		buildCfg.ConfidenceThreshold = cfg.Builder.ConfidenceThreshold
	}

	def, err := taxon.BuildFromReferenceGroup(args[0], group, buildCfg)
	if err != nil {
		return err
	}

	reg, path, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	if err := reg.Register(def); err != nil {
		return err
	}
	if err := saveRegistry(reg, path); err != nil {
		return err
	}

	pterm.Success.Printf("Defined class %s (hash %s) from %d reference objects\n",
		def.ClassID, def.ContentHash, len(def.ValidatedSamples))
	return nil
}

func parseWeights(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	weights := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid weight %q, expected feature=value", pair)
		}
		w, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight value in %q: %w", pair, err)
		}
		weights[key] = w
	}
	return weights, nil
}
