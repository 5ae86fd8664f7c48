package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/config"
)

// InitCmd creates the config file and a fresh working taxonomy.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and a fresh working taxonomy",
	Long: `init — Create ~/.taxon/config.toml and the working taxonomy document.

The config file is written with the current effective settings so every
tunable is visible and editable. The working taxonomy is seeded with the
built-in Savignano preset classes unless taxonomy.include_presets is
disabled.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := config.WriteStarter(config.DefaultConfigPath(), cfg); err != nil {
		pterm.Warning.Printf("Config: %v\n", err)
	} else {
		pterm.Success.Printf("Wrote %s\n", config.DefaultConfigPath())
	}

	reg, path, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	if cfg.Taxonomy.IncludePresets {
		if n := seedPresets(reg); n > 0 {
			pterm.Success.Printf("Seeded %d preset classes\n", n)
		}
	}
	if err := saveRegistry(reg, path); err != nil {
		return err
	}
	pterm.Success.Printf("Working taxonomy at %s (%d classes)\n", path, reg.Len())
	return nil
}
