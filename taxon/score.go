package taxon

import (
	"sort"

	"github.com/montelab/taxon/artifact"
)

// ParameterStatus summarizes how a single parameter fared.
type ParameterStatus string

const (
	// StatusPass: observed value inside the hard bounds.
	StatusPass ParameterStatus = "pass"
	// StatusOutOfRange: observed value outside [min, max]; scores 0.
	StatusOutOfRange ParameterStatus = "out_of_range"
	// StatusMissing: feature absent from the artifact; scores 0.
	StatusMissing ParameterStatus = "missing"
)

// ParameterDiagnostic explains one parameter's contribution to a result.
type ParameterDiagnostic struct {
	Status      ParameterStatus `json:"status"`
	Observed    *float64        `json:"observed,omitempty"` // nil when missing
	Target      float64         `json:"target"`
	ExpectedMin float64         `json:"expected_min"`
	ExpectedMax float64         `json:"expected_max"`
	Score       float64         `json:"score"`
	Weight      float64         `json:"weight"`
}

// Result is the outcome of scoring one artifact against one class.
// It is transient: results are returned to the caller, never persisted.
type Result struct {
	ClassID    string                         `json:"class_id"`
	ClassName  string                         `json:"class_name"`
	IsMember   bool                           `json:"is_member"`
	Confidence float64                        `json:"confidence"`
	FailedGate string                         `json:"failed_gate,omitempty"`
	Diagnostic map[string]ParameterDiagnostic `json:"diagnostic"`
}

// Classify scores an artifact's features against a class definition.
//
// Boolean gates are evaluated first: any gate whose feature is absent or
// unequal to the required value rejects the class outright with confidence
// 0, short-circuiting parameter scoring. Otherwise every parameter in both
// namespaces is scored; missing features and out-of-range values score 0
// (missing data counts against confidence, never as a free pass).
//
// Confidence is the weighted average Σ(w·s)/Σw over parameters with
// positive weight. Zero-weight parameters still appear in the diagnostic
// but contribute to neither sum; a class whose total weight is zero has
// confidence 0 by convention.
func Classify(def *ClassDefinition, features artifact.Features) Result {
	res := Result{
		ClassID:    def.ClassID,
		ClassName:  def.Name,
		Diagnostic: make(map[string]ParameterDiagnostic, len(def.Morphometric)+len(def.Technological)),
	}

	// Gates in sorted order so the reported failure is deterministic.
	gateNames := make([]string, 0, len(def.OptionalFeatures))
	for name := range def.OptionalFeatures {
		gateNames = append(gateNames, name)
	}
	sort.Strings(gateNames)
	for _, name := range gateNames {
		observed, ok := features.Bool(name)
		if !ok || observed != def.OptionalFeatures[name] {
			res.FailedGate = name
			return res
		}
	}

	var weightSum, scoreSum float64
	score := func(p Parameter) {
		diag := ParameterDiagnostic{
			Target:      p.TargetValue,
			ExpectedMin: p.MinThreshold,
			ExpectedMax: p.MaxThreshold,
			Weight:      p.Weight,
		}

		if observed, ok := features.Number(p.Name); ok {
			v := observed
			diag.Observed = &v
			if p.InRange(observed) {
				diag.Status = StatusPass
				diag.Score = p.Score(observed)
			} else {
				diag.Status = StatusOutOfRange
			}
		} else {
			diag.Status = StatusMissing
		}

		if p.Weight > 0 {
			weightSum += p.Weight
			scoreSum += p.Weight * diag.Score
		}
		res.Diagnostic[p.Name] = diag
	}

	for _, p := range def.Morphometric {
		score(p)
	}
	for _, p := range def.Technological {
		score(p)
	}

	if weightSum > 0 {
		res.Confidence = scoreSum / weightSum
	}
	res.IsMember = res.Confidence >= def.ConfidenceThreshold
	return res
}
