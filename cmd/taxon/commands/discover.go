package commands

import (
	"encoding/json"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/config"
	"github.com/montelab/taxon/errors"
	"github.com/montelab/taxon/registry"
	"github.com/montelab/taxon/taxon"
)

var (
	discoverObjectsFile  string
	discoverClustersFile string
	discoverPrefix       string
	discoverMinSize      int
)

// DiscoverCmd promotes externally clustered artifacts to candidate classes.
var DiscoverCmd = &cobra.Command{
	Use:   "discover --objects FILE --clusters FILE",
	Short: "Promote clustered artifact groups to candidate classes",
	Long: `discover — Turn cluster assignments into candidate taxonomy classes.

Clustering itself happens elsewhere; discover consumes its output. The
objects file is a JSON array or YAML list of artifact feature documents
and the clusters file is a JSON object mapping artifact id to integer
cluster label. Label -1 marks noise and is skipped. Every cluster with at
least the minimum member count becomes a class derived from its members,
named <prefix>-cluster-<label>. Candidates are all built before any is
registered, so a bad cluster leaves the taxonomy untouched.

Examples:
  taxon discover --objects finds.json --clusters hdbscan_labels.json
  taxon discover --objects finds.yaml --clusters labels.json \
      --prefix emilia --min-size 8`,
	RunE: runDiscover,
}

func init() {
	DiscoverCmd.Flags().StringVar(&discoverObjectsFile, "objects", "", "artifact group file (JSON array or YAML list)")
	DiscoverCmd.Flags().StringVar(&discoverClustersFile, "clusters", "", "JSON object of artifact id to cluster label")
	DiscoverCmd.Flags().StringVar(&discoverPrefix, "prefix", "", "candidate class name prefix (default from config)")
	DiscoverCmd.Flags().IntVar(&discoverMinSize, "min-size", 0, "minimum cluster size to promote (default from config)")
	DiscoverCmd.Flags().StringVar(&taxonomyPath, "taxonomy", "", "taxonomy file (default from config)")
	DiscoverCmd.MarkFlagRequired("objects")
	DiscoverCmd.MarkFlagRequired("clusters")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	objects, err := artifact.LoadGroupFile(discoverObjectsFile)
	if err != nil {
		return err
	}
	assignments, err := loadAssignments(discoverClustersFile)
	if err != nil {
		return err
	}

	discoverCfg := &registry.DiscoverConfig{
		MinClusterSize: discoverMinSize,
		NamePrefix:     discoverPrefix,
		Build: &taxon.BuildConfig{
			ToleranceFactor:     cfg.Builder.ToleranceFactor,
			ConfidenceThreshold: cfg.Builder.ConfidenceThreshold,
			CreatedBy:           cfg.Builder.Operator,
		},
	}
	if discoverCfg.MinClusterSize == 0 {
		discoverCfg.MinClusterSize = cfg.Discover.MinClusterSize
	}
	if discoverCfg.NamePrefix == "" {
		discoverCfg.NamePrefix = cfg.Discover.NamePrefix
	}

	reg, path, err := openRegistry(cfg)
	if err != nil {
		return err
	}
	report, err := reg.Discover(objects, assignments, discoverCfg)
	if err != nil {
		return err
	}
	if len(report.Promoted) > 0 {
		if err := saveRegistry(reg, path); err != nil {
			return err
		}
	}

	for _, def := range report.Promoted {
		pterm.Success.Printf("Promoted %s (hash %s, %d members)\n",
			def.ClassID, def.ContentHash, len(def.ValidatedSamples))
	}
	for _, skipped := range report.Skipped {
		pterm.Warning.Printf("Skipped cluster %d: %d members, need %d\n",
			skipped.Label, skipped.Size, discoverCfg.MinClusterSize)
	}
	pterm.Printf("%d promoted, %d skipped, %d noise, %d unassigned\n",
		len(report.Promoted), len(report.Skipped), report.Noise, report.Unassigned)
	return nil
}

func loadAssignments(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading cluster assignments %s", path)
	}
	var assignments map[string]int
	if err := json.Unmarshal(data, &assignments); err != nil {
		return nil, errors.Wrapf(err, "parsing cluster assignments %s", path)
	}
	return assignments, nil
}
