package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/config"
	"github.com/montelab/taxon/logger"
	"github.com/montelab/taxon/watch"
)

// WatchCmd classifies artifact files as they land in a directory.
var WatchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Classify artifact files as they appear in a directory",
	Long: `watch — Watch a directory and classify every artifact file written
into it. Useful next to a scanning pipeline that drops one JSON or YAML
feature document per processed find. Writes are debounced so half-written
files are not picked up. Stop with Ctrl-C.

Examples:
  taxon watch ./incoming
  taxon watch /srv/scans --taxonomy dig-site.json`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	WatchCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, _, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	if reg.Len() == 0 {
		pterm.Warning.Println("Taxonomy is empty; run taxon init or taxon define first")
		return nil
	}

	handler := func(a artifact.Artifact, path string) {
		best, ok := reg.Classify(a)
		if !ok {
			return
		}
		if best.IsMember {
			pterm.Success.Printf("%s: %s (%.2f%%)\n", a.ID, best.ClassName, best.Confidence*100)
		} else {
			pterm.Warning.Printf("%s: no match, closest %s (%.2f%%)\n",
				a.ID, best.ClassName, best.Confidence*100)
		}
	}

	watcher, err := watch.NewWatcher(args[0], handler, logger.Logger.Named("watch"))
	if err != nil {
		return err
	}
	if cfg.Watch.DebounceMillis > 0 {
		watcher.SetDebounce(time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond)
	}
	watcher.Start()
	defer watcher.Stop()

	pterm.Info.Printf("Watching %s against %d classes\n", args[0], reg.Len())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	pterm.Println("\nStopping")
	return nil
}
