package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/montelab/taxon/cmd/taxon/commands"
	"github.com/montelab/taxon/config"
	"github.com/montelab/taxon/logger"
)

var rootCmd = &cobra.Command{
	Use:   "taxon",
	Short: "taxon - Formal parametric taxonomy and classification engine",
	Long: `taxon - Formal parametric taxonomy for 3D-scanned artifacts.

taxon derives taxonomic class definitions statistically from reference
groups of measured artifacts, scores unknown artifacts against every
registered class with weighted-tolerance matching, and keeps an
auditable, content-hashed version history when class definitions are
edited.

Available commands:
  init     - Create the config file and a fresh working taxonomy
  define   - Derive a class definition from a reference group file
  classify - Score an artifact feature file against the taxonomy
  modify   - Edit class parameters, producing a new audited version
  discover - Promote externally clustered artifacts to candidate classes
  list     - List registered classes
  show     - Show one class in full
  stats    - Show taxonomy statistics
  export   - Write the taxonomy document to a file
  import   - Merge a taxonomy document into the working taxonomy
  watch    - Classify artifact files as they appear in a directory
  config   - Show the effective configuration

Examples:
  taxon define "Savignano Type" --refs refs.json
  taxon classify axe974.json --all-scores
  taxon modify savignano-type --set length.max=135 \
      --justification "new find extends range" --operator mt`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := logger.Initialize(cfg.Log.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.DefineCmd)
	rootCmd.AddCommand(commands.ClassifyCmd)
	rootCmd.AddCommand(commands.ModifyCmd)
	rootCmd.AddCommand(commands.DiscoverCmd)
	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.StatsCmd)
	rootCmd.AddCommand(commands.ExportCmd)
	rootCmd.AddCommand(commands.ImportCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
