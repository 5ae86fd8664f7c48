package taxon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterValidate(t *testing.T) {
	base := Parameter{
		Name:         "length",
		TargetValue:  100,
		MinThreshold: 80,
		MaxThreshold: 120,
		Tolerance:    15,
		Weight:       1,
	}
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*Parameter)
	}{
		{"empty name", func(p *Parameter) { p.Name = "" }},
		{"target below min", func(p *Parameter) { p.TargetValue = 70 }},
		{"target above max", func(p *Parameter) { p.TargetValue = 130 }},
		{"zero tolerance", func(p *Parameter) { p.Tolerance = 0 }},
		{"negative tolerance", func(p *Parameter) { p.Tolerance = -1 }},
		{"negative weight", func(p *Parameter) { p.Weight = -0.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestParameterScoreLinearDecay(t *testing.T) {
	p := Parameter{
		Name:         "length",
		TargetValue:  100,
		MinThreshold: 50,
		MaxThreshold: 150,
		Tolerance:    20,
		Weight:       1,
	}

	assert.Equal(t, 1.0, p.Score(100))
	assert.InDelta(t, 0.5, p.Score(110), 1e-12)
	assert.InDelta(t, 0.5, p.Score(90), 1e-12)
	assert.Equal(t, 0.0, p.Score(120), "exactly tolerance away")
	assert.Equal(t, 0.0, p.Score(125), "beyond tolerance clamps at zero")
}

func TestParameterHardBoundsBeatTolerance(t *testing.T) {
	// Tolerance is generous but the bounds are tight: the bounds win.
	p := Parameter{
		Name:         "length",
		TargetValue:  100,
		MinThreshold: 90,
		MaxThreshold: 110,
		Tolerance:    50,
		Weight:       1,
	}

	assert.False(t, p.InRange(89))
	assert.Equal(t, 0.0, p.Score(89))
	assert.Greater(t, p.Score(90), 0.0, "just inside the bound still scores")
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "savignano-type", Slug("Savignano Type"))
	assert.Equal(t, "matrix-a", Slug("  Matrix_A  "))
	assert.Equal(t, "type-2b", Slug("Type 2b!"))
}
