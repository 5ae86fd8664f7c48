// Package registry provides the mutable store of class definitions: an
// append-only map of immutable ClassDefinitions with content-hash based
// versioning, cluster-driven class discovery, and a lossless export format.
//
// A Registry is an explicitly constructed value owned by the caller; there
// is no process-wide instance. Writers (Register, Modify, Discover, Import)
// are serialized by a per-registry lock. Reads (Classify, Get, List,
// Export) run concurrently, which is safe because registered definitions
// are never mutated.
package registry

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/errors"
	"github.com/montelab/taxon/taxon"
)

var (
	// ErrDuplicateClassID is returned when registering an id that already
	// exists. Callers must version via Modify instead of overwriting.
	ErrDuplicateClassID = errors.New("duplicate class id")

	// ErrUnknownClassID is returned by lookups and Modify against an id
	// that was never registered.
	ErrUnknownClassID = errors.New("unknown class id")

	// ErrUnknownParameter is returned by Modify when a change set names a
	// parameter the class does not define.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrMalformedImport is returned when an imported taxonomy document is
	// missing required fields, internally inconsistent, or carries a
	// content hash that does not match its parameter content. Import is
	// rejected wholesale; the registry is left untouched.
	ErrMalformedImport = errors.New("malformed taxonomy import")
)

// ChangeRecord links an old class version to the one superseding it,
// with the mandatory justification and operator attribution.
type ChangeRecord struct {
	ID            string    `json:"id"`
	FromClassID   string    `json:"from_class_id"`
	ToClassID     string    `json:"to_class_id"`
	Justification string    `json:"justification"`
	Operator      string    `json:"operator"`
	Timestamp     time.Time `json:"timestamp"`
}

// ClassificationEntry is one line of the transient classification log.
type ClassificationEntry struct {
	ArtifactID string
	BestClass  string
	Confidence float64
	Timestamp  time.Time
}

type entry struct {
	def          *taxon.ClassDefinition
	supersedes   string
	supersededBy string
}

// Registry is the taxonomy store. Use NewRegistry to construct one.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*entry
	order   []string // registration order of class ids
	changes []ChangeRecord

	logMu          sync.Mutex
	classification []ClassificationEntry

	log *zap.SugaredLogger
}

// NewRegistry constructs an empty registry. A nil logger disables logging.
func NewRegistry(log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Registry{
		classes: make(map[string]*entry),
		log:     log,
	}
}

// Register inserts a class definition. Registering an id that already
// exists fails with ErrDuplicateClassID.
func (r *Registry) Register(def *taxon.ClassDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(def, "")
}

func (r *Registry) registerLocked(def *taxon.ClassDefinition, supersedes string) error {
	if _, exists := r.classes[def.ClassID]; exists {
		return errors.WithHint(
			errors.Wrapf(ErrDuplicateClassID, "class %q", def.ClassID),
			"use Modify to derive a new version instead of overwriting")
	}
	r.classes[def.ClassID] = &entry{def: def, supersedes: supersedes}
	r.order = append(r.order, def.ClassID)
	r.log.Debugw("class registered",
		"class_id", def.ClassID,
		"content_hash", def.ContentHash,
		"parameters", len(def.Morphometric)+len(def.Technological))
	return nil
}

// Get returns the class definition for an id.
func (r *Registry) Get(classID string) (*taxon.ClassDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.classes[classID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownClassID, "class %q", classID)
	}
	return e.def, nil
}

// Lineage returns the supersession links for a class: the id it superseded
// and the id that superseded it, either possibly empty.
func (r *Registry) Lineage(classID string) (supersedes, supersededBy string, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.classes[classID]
	if !ok {
		return "", "", errors.Wrapf(ErrUnknownClassID, "class %q", classID)
	}
	return e.supersedes, e.supersededBy, nil
}

// List returns all registered definitions in registration order.
func (r *Registry) List() []*taxon.ClassDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*taxon.ClassDefinition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.classes[id].def)
	}
	return out
}

// Len returns the number of registered classes, historical versions
// included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Changes returns a copy of the recorded change history.
func (r *Registry) Changes() []ChangeRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChangeRecord, len(r.changes))
	copy(out, r.changes)
	return out
}

// ClassifyAll scores the artifact against every registered class and
// returns all results sorted by confidence descending, ties broken by
// class id ascending for determinism.
func (r *Registry) ClassifyAll(a artifact.Artifact) []taxon.Result {
	r.mu.RLock()
	results := make([]taxon.Result, 0, len(r.order))
	for _, id := range r.order {
		results = append(results, taxon.Classify(r.classes[id].def, a.Features))
	}
	r.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].ClassID < results[j].ClassID
	})

	r.recordClassification(a, results)
	return results
}

// Classify returns the best-scoring result for the artifact. The second
// result is false when the registry holds no classes.
func (r *Registry) Classify(a artifact.Artifact) (taxon.Result, bool) {
	results := r.ClassifyAll(a)
	if len(results) == 0 {
		return taxon.Result{}, false
	}
	return results[0], true
}

func (r *Registry) recordClassification(a artifact.Artifact, results []taxon.Result) {
	e := ClassificationEntry{
		ArtifactID: a.ID,
		Timestamp:  time.Now().UTC(),
	}
	if len(results) > 0 {
		e.BestClass = results[0].ClassID
		e.Confidence = results[0].Confidence
	}

	r.logMu.Lock()
	r.classification = append(r.classification, e)
	r.logMu.Unlock()

	r.log.Debugw("artifact classified",
		"artifact_id", a.ID,
		"best_class", e.BestClass,
		"confidence", e.Confidence)
}

// ClassificationLog returns a copy of the transient classification log.
// The log is never exported.
func (r *Registry) ClassificationLog() []ClassificationEntry {
	r.logMu.Lock()
	defer r.logMu.Unlock()
	out := make([]ClassificationEntry, len(r.classification))
	copy(out, r.classification)
	return out
}

// ClassStats summarizes one registered class.
type ClassStats struct {
	Name                string
	Parameters          int
	ValidatedSamples    int
	ConfidenceThreshold float64
}

// Stats summarizes the registry.
type Stats struct {
	Classes         int
	Modifications   int
	Classifications int
	PerClass        map[string]ClassStats
}

// Stats returns registry-wide statistics.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		Classes:       len(r.order),
		Modifications: len(r.changes),
		PerClass:      make(map[string]ClassStats, len(r.order)),
	}
	for _, id := range r.order {
		def := r.classes[id].def
		s.PerClass[id] = ClassStats{
			Name:                def.Name,
			Parameters:          len(def.Morphometric) + len(def.Technological),
			ValidatedSamples:    len(def.ValidatedSamples),
			ConfidenceThreshold: def.ConfidenceThreshold,
		}
	}

	r.logMu.Lock()
	s.Classifications = len(r.classification)
	r.logMu.Unlock()

	return s
}
