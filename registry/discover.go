package registry

import (
	"fmt"
	"sort"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/errors"
	"github.com/montelab/taxon/taxon"
)

// NoiseLabel marks artifacts the clustering collaborator considered noise.
// Noise is never promoted to a class.
const NoiseLabel = -1

// DefaultMinClusterSize is the smallest cluster promoted to a candidate
// class when the caller does not override it.
const DefaultMinClusterSize = 5

// DiscoverConfig tunes cluster-driven class discovery. The zero value (or
// nil) uses defaults.
type DiscoverConfig struct {
	MinClusterSize int                // default DefaultMinClusterSize
	NamePrefix     string             // default "discovered"
	Build          *taxon.BuildConfig // forwarded to the class builder per cluster
}

// SkippedCluster reports a cluster too small to become a class.
type SkippedCluster struct {
	Label int
	Size  int
}

// DiscoveryReport summarizes one Discover run.
type DiscoveryReport struct {
	Promoted   []*taxon.ClassDefinition
	Skipped    []SkippedCluster
	Unassigned int // artifacts with no cluster assignment
	Noise      int // artifacts labeled NoiseLabel
}

// Discover groups artifacts by externally supplied cluster labels and
// promotes every cluster of at least MinClusterSize artifacts to a
// candidate class derived from its members. Smaller clusters are reported
// but not promoted. The clustering itself is a collaborator concern; this
// engine only consumes its assignments.
//
// All candidate classes are built and checked before any is registered, so
// a failure leaves the registry untouched.
func (r *Registry) Discover(objects []artifact.Artifact, assignments map[string]int, cfg *DiscoverConfig) (*DiscoveryReport, error) {
	if cfg == nil {
		cfg = &DiscoverConfig{}
	}
	minSize := cfg.MinClusterSize
	if minSize == 0 {
		minSize = DefaultMinClusterSize
	}
	prefix := cfg.NamePrefix
	if prefix == "" {
		prefix = "discovered"
	}

	report := &DiscoveryReport{}
	clusters := make(map[int][]artifact.Artifact)
	for _, a := range objects {
		label, ok := assignments[a.ID]
		switch {
		case !ok:
			report.Unassigned++
		case label == NoiseLabel:
			report.Noise++
		default:
			clusters[label] = append(clusters[label], a)
		}
	}

	labels := make([]int, 0, len(clusters))
	for label := range clusters {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	for _, label := range labels {
		members := clusters[label]
		if len(members) < minSize {
			report.Skipped = append(report.Skipped, SkippedCluster{Label: label, Size: len(members)})
			continue
		}

		buildCfg := taxon.BuildConfig{}
		if cfg.Build != nil {
			buildCfg = *cfg.Build
		}
		name := fmt.Sprintf("%s-cluster-%d", prefix, label)
		buildCfg.ClassID = taxon.Slug(name)
		if buildCfg.Description == "" {
			buildCfg.Description = fmt.Sprintf("Candidate class discovered from cluster %d (%d artifacts)", label, len(members))
		}

		def, err := taxon.BuildFromReferenceGroup(name, members, &buildCfg)
		if err != nil {
			return nil, errors.Wrapf(err, "building candidate class for cluster %d", label)
		}
		report.Promoted = append(report.Promoted, def)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, def := range report.Promoted {
		if _, exists := r.classes[def.ClassID]; exists {
			return nil, errors.Wrapf(ErrDuplicateClassID,
				"discovered class %q already registered", def.ClassID)
		}
	}
	for _, def := range report.Promoted {
		if err := r.registerLocked(def, ""); err != nil {
			return nil, err
		}
	}

	r.log.Infow("discovery complete",
		"promoted", len(report.Promoted),
		"skipped", len(report.Skipped),
		"noise", report.Noise,
		"unassigned", report.Unassigned)

	return report, nil
}
