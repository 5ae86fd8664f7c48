package taxon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montelab/taxon/artifact"
)

func scoringClass(t *testing.T) *ClassDefinition {
	t.Helper()
	def, err := New(Spec{
		ClassID: "scoring-class",
		Name:    "Scoring Class",
		Morphometric: map[string]Parameter{
			"length": {TargetValue: 100, MinThreshold: 80, MaxThreshold: 120, Tolerance: 20, Weight: 1},
			"width":  {TargetValue: 40, MinThreshold: 30, MaxThreshold: 50, Tolerance: 10, Weight: 1},
		},
		OptionalFeatures: map[string]bool{
			"incavo_presente": true,
		},
		ConfidenceThreshold: 0.75,
	})
	require.NoError(t, err)
	return def
}

func TestClassifyPerfectMatch(t *testing.T) {
	def := scoringClass(t)
	res := Classify(def, artifact.Features{
		"length":          artifact.Number(100),
		"width":           artifact.Number(40),
		"incavo_presente": artifact.Bool(true),
	})

	assert.True(t, res.IsMember)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Empty(t, res.FailedGate)
	assert.Equal(t, StatusPass, res.Diagnostic["length"].Status)
	assert.Equal(t, StatusPass, res.Diagnostic["width"].Status)
}

func TestClassifyGateShortCircuit(t *testing.T) {
	def := scoringClass(t)

	t.Run("gate value mismatch", func(t *testing.T) {
		res := Classify(def, artifact.Features{
			"length":          artifact.Number(100),
			"width":           artifact.Number(40),
			"incavo_presente": artifact.Bool(false),
		})
		assert.False(t, res.IsMember)
		assert.Equal(t, 0.0, res.Confidence)
		assert.Equal(t, "incavo_presente", res.FailedGate)
		assert.Empty(t, res.Diagnostic, "parameter scoring is skipped")
	})

	t.Run("gate feature absent", func(t *testing.T) {
		res := Classify(def, artifact.Features{
			"length": artifact.Number(100),
			"width":  artifact.Number(40),
		})
		assert.False(t, res.IsMember)
		assert.Equal(t, "incavo_presente", res.FailedGate)
	})
}

func TestClassifyMissingFeatureCountsAgainst(t *testing.T) {
	def := scoringClass(t)
	res := Classify(def, artifact.Features{
		"length":          artifact.Number(100),
		"incavo_presente": artifact.Bool(true),
	})

	// width is missing: scores 0 but its weight stays in the denominator.
	assert.InDelta(t, 0.5, res.Confidence, 1e-12)
	assert.False(t, res.IsMember)
	assert.Equal(t, StatusMissing, res.Diagnostic["width"].Status)
	assert.Nil(t, res.Diagnostic["width"].Observed)
}

func TestClassifyOutOfRangeScoresZeroWithoutShortCircuit(t *testing.T) {
	def := scoringClass(t)
	res := Classify(def, artifact.Features{
		"length":          artifact.Number(79), // below min
		"width":           artifact.Number(40),
		"incavo_presente": artifact.Bool(true),
	})

	assert.Equal(t, StatusOutOfRange, res.Diagnostic["length"].Status)
	assert.Equal(t, 0.0, res.Diagnostic["length"].Score)
	require.NotNil(t, res.Diagnostic["length"].Observed)
	assert.Equal(t, 79.0, *res.Diagnostic["length"].Observed)

	// The other parameter is still scored.
	assert.Equal(t, StatusPass, res.Diagnostic["width"].Status)
	assert.InDelta(t, 0.5, res.Confidence, 1e-12)
}

func TestClassifyWeightedAverage(t *testing.T) {
	def, err := New(Spec{
		ClassID: "weighted",
		Name:    "Weighted",
		Morphometric: map[string]Parameter{
			"heavy": {TargetValue: 10, MinThreshold: 0, MaxThreshold: 20, Tolerance: 10, Weight: 3},
			"light": {TargetValue: 10, MinThreshold: 0, MaxThreshold: 20, Tolerance: 10, Weight: 1},
		},
		ConfidenceThreshold: 0.5,
	})
	require.NoError(t, err)

	// heavy scores 1.0, light scores 0.0: confidence = 3/(3+1).
	res := Classify(def, artifact.Features{
		"heavy": artifact.Number(10),
		"light": artifact.Number(20),
	})
	assert.InDelta(t, 0.75, res.Confidence, 1e-12)
	assert.True(t, res.IsMember)
}

func TestClassifyZeroWeightExcludedFromAverage(t *testing.T) {
	def, err := New(Spec{
		ClassID: "zero-weight",
		Name:    "Zero Weight",
		Morphometric: map[string]Parameter{
			"counted":  {TargetValue: 10, MinThreshold: 0, MaxThreshold: 20, Tolerance: 10, Weight: 1},
			"advisory": {TargetValue: 10, MinThreshold: 0, MaxThreshold: 20, Tolerance: 10, Weight: 0},
		},
		ConfidenceThreshold: 0.5,
	})
	require.NoError(t, err)

	// advisory scores 0 but is weightless: confidence comes from counted alone.
	res := Classify(def, artifact.Features{
		"counted":  artifact.Number(10),
		"advisory": artifact.Number(20),
	})
	assert.Equal(t, 1.0, res.Confidence)
	assert.Contains(t, res.Diagnostic, "advisory", "weightless parameters still get a diagnostic")
}

func TestClassifyAllWeightsZero(t *testing.T) {
	def, err := New(Spec{
		ClassID: "all-zero",
		Name:    "All Zero",
		Morphometric: map[string]Parameter{
			"a": {TargetValue: 10, MinThreshold: 0, MaxThreshold: 20, Tolerance: 10, Weight: 0},
		},
		ConfidenceThreshold: 0.5,
	})
	require.NoError(t, err)

	res := Classify(def, artifact.Features{"a": artifact.Number(10)})
	assert.Equal(t, 0.0, res.Confidence)
	assert.False(t, res.IsMember)
}

func TestClassifyThresholdBoundaryIsInclusive(t *testing.T) {
	def, err := New(Spec{
		ClassID: "boundary",
		Name:    "Boundary",
		Morphometric: map[string]Parameter{
			"length": {TargetValue: 100, MinThreshold: 50, MaxThreshold: 150, Tolerance: 20, Weight: 1},
		},
		ConfidenceThreshold: 0.5,
	})
	require.NoError(t, err)

	// 110 scores exactly 0.5, meeting the threshold.
	res := Classify(def, artifact.Features{"length": artifact.Number(110)})
	assert.InDelta(t, 0.5, res.Confidence, 1e-12)
	assert.True(t, res.IsMember)
}
