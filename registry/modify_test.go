package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montelab/taxon/taxon"
)

func float(v float64) *float64 { return &v }

func modifiableClass(t *testing.T) *taxon.ClassDefinition {
	t.Helper()
	def, err := taxon.New(taxon.Spec{
		ClassID: "savignano-type",
		Name:    "Savignano Type",
		Morphometric: map[string]taxon.Parameter{
			"length": {TargetValue: 165, MinThreshold: 140, MaxThreshold: 200, Tolerance: 20, Weight: 1},
		},
		Technological: map[string]taxon.Parameter{
			"edge_angle": {TargetValue: 55, MinThreshold: 45, MaxThreshold: 65, Tolerance: 8, Weight: 1},
		},
		OptionalFeatures: map[string]bool{"incavo_presente": true},
	})
	require.NoError(t, err)
	return def
}

func TestModifyCreatesNewVersion(t *testing.T) {
	reg := NewRegistry(nil)
	old := modifiableClass(t)
	require.NoError(t, reg.Register(old))

	next, err := reg.Modify("savignano-type", ChangeSet{
		Morphometric: map[string]ParamEdit{
			"length": {Tolerance: float(25)},
		},
	}, "new finds widen the range", "mt")
	require.NoError(t, err)

	assert.Equal(t, "savignano-type_v2", next.ClassID)
	assert.Equal(t, 25.0, next.Morphometric["length"].Tolerance)
	assert.NotEqual(t, old.ContentHash, next.ContentHash)
	assert.Equal(t, "mt", next.CreatedBy)

	// The original stays registered and untouched.
	kept, err := reg.Get("savignano-type")
	require.NoError(t, err)
	assert.Equal(t, 20.0, kept.Morphometric["length"].Tolerance)
	assert.Equal(t, 2, reg.Len())

	// Supersession links both ways.
	_, supersededBy, err := reg.Lineage("savignano-type")
	require.NoError(t, err)
	assert.Equal(t, "savignano-type_v2", supersededBy)
	supersedes, _, err := reg.Lineage("savignano-type_v2")
	require.NoError(t, err)
	assert.Equal(t, "savignano-type", supersedes)

	// One audit record, fully attributed.
	changes := reg.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "savignano-type", changes[0].FromClassID)
	assert.Equal(t, "savignano-type_v2", changes[0].ToClassID)
	assert.Equal(t, "new finds widen the range", changes[0].Justification)
	assert.Equal(t, "mt", changes[0].Operator)
	assert.NotEmpty(t, changes[0].ID)
}

func TestModifyChainsVersions(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(modifiableClass(t)))

	_, err := reg.Modify("savignano-type", ChangeSet{
		Morphometric: map[string]ParamEdit{"length": {Tolerance: float(25)}},
	}, "widen", "mt")
	require.NoError(t, err)

	// Modifying the v2 allocates v3 on the shared base counter.
	next, err := reg.Modify("savignano-type_v2", ChangeSet{
		Morphometric: map[string]ParamEdit{"length": {Tolerance: float(30)}},
	}, "widen again", "mt")
	require.NoError(t, err)
	assert.Equal(t, "savignano-type_v3", next.ClassID)

	// Modifying the base again also continues the counter, never reuses v2.
	next, err = reg.Modify("savignano-type", ChangeSet{
		Morphometric: map[string]ParamEdit{"length": {Weight: float(2)}},
	}, "reweight", "mt")
	require.NoError(t, err)
	assert.Equal(t, "savignano-type_v4", next.ClassID)
}

func TestModifyNoOpWhenContentUnchanged(t *testing.T) {
	reg := NewRegistry(nil)
	old := modifiableClass(t)
	require.NoError(t, reg.Register(old))

	// Setting a field to its current value changes nothing.
	next, err := reg.Modify("savignano-type", ChangeSet{
		Morphometric: map[string]ParamEdit{"length": {Tolerance: float(20)}},
	}, "no-op edit", "mt")
	require.NoError(t, err)

	assert.Equal(t, "savignano-type", next.ClassID)
	assert.Equal(t, old.ContentHash, next.ContentHash)
	assert.Equal(t, 1, reg.Len())
	assert.Empty(t, reg.Changes())
}

func TestModifyGateEdits(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(modifiableClass(t)))

	next, err := reg.Modify("savignano-type", ChangeSet{
		SetGates:    map[string]bool{"tagliente_espanso": true},
		RemoveGates: []string{"incavo_presente"},
	}, "rework gates", "mt")
	require.NoError(t, err)

	assert.True(t, next.OptionalFeatures["tagliente_espanso"])
	assert.NotContains(t, next.OptionalFeatures, "incavo_presente")
}

func TestModifyTechnologicalNamespace(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(modifiableClass(t)))

	next, err := reg.Modify("savignano-type", ChangeSet{
		Technological: map[string]ParamEdit{"edge_angle": {TargetValue: float(58)}},
	}, "recalibrated", "mt")
	require.NoError(t, err)
	assert.Equal(t, 58.0, next.Technological["edge_angle"].TargetValue)
}

func TestModifyErrors(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(modifiableClass(t)))

	t.Run("missing justification", func(t *testing.T) {
		_, err := reg.Modify("savignano-type", ChangeSet{}, "", "mt")
		assert.Error(t, err)
	})

	t.Run("missing operator", func(t *testing.T) {
		_, err := reg.Modify("savignano-type", ChangeSet{}, "because", "")
		assert.Error(t, err)
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := reg.Modify("nope", ChangeSet{}, "because", "mt")
		assert.ErrorIs(t, err, ErrUnknownClassID)
	})

	t.Run("unknown parameter", func(t *testing.T) {
		_, err := reg.Modify("savignano-type", ChangeSet{
			Morphometric: map[string]ParamEdit{"girth": {Tolerance: float(5)}},
		}, "because", "mt")
		assert.ErrorIs(t, err, ErrUnknownParameter)
	})

	t.Run("edit violating invariants", func(t *testing.T) {
		_, err := reg.Modify("savignano-type", ChangeSet{
			Morphometric: map[string]ParamEdit{"length": {Tolerance: float(-1)}},
		}, "because", "mt")
		assert.Error(t, err)
		assert.Equal(t, 1, reg.Len(), "failed modify registers nothing")
	})
}

func TestBaseClassID(t *testing.T) {
	assert.Equal(t, "savignano-type", baseClassID("savignano-type"))
	assert.Equal(t, "savignano-type", baseClassID("savignano-type_v2"))
	assert.Equal(t, "savignano-type", baseClassID("savignano-type_v17"))
	assert.Equal(t, "oddly_valued", baseClassID("oddly_valued"), "non-numeric suffix is part of the id")
}
