package taxon

import (
	"fmt"
	"strings"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/errors"
)

// DefaultToleranceFactor scales a parameter's tolerance off its mean when
// deriving a class from reference measurements.
const DefaultToleranceFactor = 0.15

// technologicalKeys routes derived parameters into the technological
// namespace. Everything else is morphometric. The namespaces score
// identically; the split exists for reporting.
var technologicalKeys = map[string]bool{
	"socket_depth":    true,
	"socket_diameter": true,
	"edge_angle":      true,
	"hammering_index": true,
}

// BuildConfig tunes class derivation. The zero value (or nil) uses
// defaults throughout.
type BuildConfig struct {
	ClassID             string             // default: slug of the class name
	Description         string             // default: generated from group size
	Weights             map[string]float64 // per-feature weights, default 1.0
	ToleranceFactor     float64            // default DefaultToleranceFactor
	ConfidenceThreshold float64            // default DefaultConfidenceThreshold
	CreatedBy           string
	TechnologicalKeys   []string // extra keys routed to the technological namespace
}

// BuildFromReferenceGroup derives a class definition statistically from a
// group of measured reference artifacts.
//
// For every numeric feature present in each reference artifact: the target
// is the group mean, the hard bounds are the observed extremes (the class
// is exactly as permissive as its training evidence), and the tolerance is
// ToleranceFactor times the mean, or ToleranceFactor times the observed
// range when the mean is zero. Features missing from any artifact are
// dropped, never imputed.
//
// Boolean features present in every artifact with a uniform value become
// hard gates; booleans that vary across the group are not diagnostic and
// impose no constraint.
func BuildFromReferenceGroup(name string, group []artifact.Artifact, cfg *BuildConfig) (*ClassDefinition, error) {
	if len(group) < 2 {
		return nil, errors.Wrapf(ErrInsufficientSamples,
			"class %q: got %d reference objects, need at least 2", name, len(group))
	}
	if cfg == nil {
		cfg = &BuildConfig{}
	}

	tolFactor := cfg.ToleranceFactor
	if tolFactor == 0 {
		tolFactor = DefaultToleranceFactor
	}
	if tolFactor < 0 {
		return nil, errors.Newf("class %q: tolerance factor must be positive, got %v", name, tolFactor)
	}

	techno := make(map[string]bool, len(technologicalKeys)+len(cfg.TechnologicalKeys))
	for k := range technologicalKeys {
		techno[k] = true
	}
	for _, k := range cfg.TechnologicalKeys {
		techno[k] = true
	}

	morphoParams := make(map[string]Parameter)
	technoParams := make(map[string]Parameter)
	for _, key := range sharedNumericKeys(group) {
		p := deriveParameter(key, group, tolFactor)
		if w, ok := cfg.Weights[key]; ok {
			p.Weight = w
		}
		if techno[key] {
			technoParams[key] = p
		} else {
			morphoParams[key] = p
		}
	}

	gates := uniformBoolGates(group)

	samples := make([]string, len(group))
	for i, a := range group {
		if a.ID != "" {
			samples[i] = a.ID
		} else {
			samples[i] = fmt.Sprintf("ref_%d", i)
		}
	}

	classID := cfg.ClassID
	if classID == "" {
		classID = Slug(name)
	}
	description := cfg.Description
	if description == "" {
		description = fmt.Sprintf("Class defined from %d reference objects", len(group))
	}

	return New(Spec{
		ClassID:             classID,
		Name:                name,
		Description:         description,
		Morphometric:        morphoParams,
		Technological:       technoParams,
		OptionalFeatures:    gates,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		CreatedBy:           cfg.CreatedBy,
		ValidatedSamples:    samples,
	})
}

// sharedNumericKeys returns the sorted feature names that are numeric in
// every artifact of the group.
func sharedNumericKeys(group []artifact.Artifact) []string {
	shared := group[0].Features.NumericKeys()
	for _, a := range group[1:] {
		kept := shared[:0]
		for _, key := range shared {
			if _, ok := a.Features.Number(key); ok {
				kept = append(kept, key)
			}
		}
		shared = kept
	}
	return shared
}

func deriveParameter(key string, group []artifact.Artifact, tolFactor float64) Parameter {
	first, _ := group[0].Features.Number(key)
	minV, maxV, sum := first, first, first
	for _, a := range group[1:] {
		v, _ := a.Features.Number(key)
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mean := sum / float64(len(group))

	tolerance := tolFactor * mean
	if tolerance < 0 {
		tolerance = -tolerance
	}
	if mean == 0 {
		// Degenerate zero tolerance would make the parameter unmatchable.
		tolerance = tolFactor * (maxV - minV)
	}
	if tolerance == 0 {
		tolerance = tolFactor
	}

	return Parameter{
		Name:         key,
		TargetValue:  mean,
		MinThreshold: minV,
		MaxThreshold: maxV,
		Tolerance:    tolerance,
		Weight:       1.0,
		Unit:         "mm",
	}
}

// uniformBoolGates returns gates for boolean features that are present in
// every artifact and carry the same value throughout the group.
func uniformBoolGates(group []artifact.Artifact) map[string]bool {
	gates := make(map[string]bool)
	for _, key := range group[0].Features.BoolKeys() {
		first, _ := group[0].Features.Bool(key)
		uniform := true
		for _, a := range group[1:] {
			v, ok := a.Features.Bool(key)
			if !ok || v != first {
				uniform = false
				break
			}
		}
		if uniform {
			gates[key] = first
		}
	}
	return gates
}

// Slug normalizes a class name into a stable identifier: lower case,
// spaces and underscores collapsed to single hyphens.
func Slug(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
