package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/config"
)

// ConfigCmd prints the effective configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `config — Print every effective setting with its source file.

Settings come from ~/.taxon/config.toml, overridden by TAXON_ environment
variables (TAXON_BUILDER_TOLERANCE_FACTOR and so on). Run taxon init to
write a starter file.`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := config.DefaultConfigPath()
	if _, statErr := os.Stat(path); statErr == nil {
		pterm.Printf("Config file: %s\n\n", path)
	} else {
		pterm.Printf("Config file: %s (not present, defaults in effect)\n\n", path)
	}

	data := pterm.TableData{
		{"Setting", "Value"},
		{"taxonomy.path", cfg.Taxonomy.Path},
		{"taxonomy.include_presets", fmt.Sprintf("%t", cfg.Taxonomy.IncludePresets)},
		{"builder.tolerance_factor", fmt.Sprintf("%.2f", cfg.Builder.ToleranceFactor)},
		{"builder.confidence_threshold", fmt.Sprintf("%.2f", cfg.Builder.ConfidenceThreshold)},
		{"builder.operator", cfg.Builder.Operator},
		{"discover.min_cluster_size", fmt.Sprintf("%d", cfg.Discover.MinClusterSize)},
		{"discover.name_prefix", cfg.Discover.NamePrefix},
		{"watch.debounce_ms", fmt.Sprintf("%d", cfg.Watch.DebounceMillis)},
		{"log.json", fmt.Sprintf("%t", cfg.Log.JSON)},
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
