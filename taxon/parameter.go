// Package taxon implements the formal parametric taxonomy: class
// definitions derived from measured reference groups, deterministic
// content-hash identity, and weighted-tolerance membership scoring.
//
// Values in this package are immutable once constructed. A ClassDefinition
// is never edited in place; modifications produce a new definition with a
// new content hash (see the registry package for versioning).
package taxon

import (
	"github.com/montelab/taxon/errors"
)

// ErrInsufficientSamples is returned when a reference group is too small
// to establish a statistical range.
var ErrInsufficientSamples = errors.New("insufficient reference samples")

// Parameter is a single scalar classification rule: an ideal value, hard
// acceptance bounds, a tolerance at which the match score reaches zero,
// and a weight controlling its share of the aggregate confidence.
type Parameter struct {
	Name         string  `json:"name"`
	TargetValue  float64 `json:"target_value"`
	MinThreshold float64 `json:"min_threshold"`
	MaxThreshold float64 `json:"max_threshold"`
	Tolerance    float64 `json:"tolerance"`
	Weight       float64 `json:"weight"`
	Unit         string  `json:"unit,omitempty"` // metadata only, no effect on scoring
}

// Validate checks the structural invariants:
// MinThreshold ≤ TargetValue ≤ MaxThreshold, Tolerance > 0, Weight ≥ 0.
func (p Parameter) Validate() error {
	if p.Name == "" {
		return errors.New("parameter name must not be empty")
	}
	if p.MinThreshold > p.TargetValue || p.TargetValue > p.MaxThreshold {
		return errors.Newf("parameter %q: target %v outside bounds [%v, %v]",
			p.Name, p.TargetValue, p.MinThreshold, p.MaxThreshold)
	}
	if p.Tolerance <= 0 {
		return errors.Newf("parameter %q: tolerance must be positive, got %v", p.Name, p.Tolerance)
	}
	if p.Weight < 0 {
		return errors.Newf("parameter %q: weight must not be negative, got %v", p.Name, p.Weight)
	}
	return nil
}

// InRange reports whether the observed value passes the hard acceptance
// bounds. Bounds are stricter than tolerance: a value outside them scores
// zero no matter how close it sits to the target.
func (p Parameter) InRange(observed float64) bool {
	return p.MinThreshold <= observed && observed <= p.MaxThreshold
}

// Score grades an observed value in [0,1]. Out-of-range values score 0.
// In-range values degrade linearly with distance from the target, reaching
// 0 at exactly Tolerance away.
func (p Parameter) Score(observed float64) float64 {
	if !p.InRange(observed) {
		return 0
	}
	d := observed - p.TargetValue
	if d < 0 {
		d = -d
	}
	s := 1 - d/p.Tolerance
	if s < 0 {
		return 0
	}
	return s
}
