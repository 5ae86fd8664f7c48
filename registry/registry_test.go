package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montelab/taxon/artifact"
	"github.com/montelab/taxon/taxon"
)

func simpleClass(t *testing.T, id string, target float64) *taxon.ClassDefinition {
	t.Helper()
	def, err := taxon.New(taxon.Spec{
		ClassID: id,
		Name:    "Class " + id,
		Morphometric: map[string]taxon.Parameter{
			"length": {TargetValue: target, MinThreshold: target - 50, MaxThreshold: target + 50, Tolerance: 20, Weight: 1},
		},
		ConfidenceThreshold: 0.5,
	})
	require.NoError(t, err)
	return def
}

func TestRegisterAndGet(t *testing.T) {
	reg := NewRegistry(nil)
	def := simpleClass(t, "alpha", 100)

	require.NoError(t, reg.Register(def))
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, def.ContentHash, got.ContentHash)

	_, err = reg.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownClassID)
}

func TestRegisterDuplicateFails(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(simpleClass(t, "alpha", 100)))

	err := reg.Register(simpleClass(t, "alpha", 200))
	assert.ErrorIs(t, err, ErrDuplicateClassID)
	assert.Equal(t, 1, reg.Len())
}

func TestListPreservesRegistrationOrder(t *testing.T) {
	reg := NewRegistry(nil)
	for _, id := range []string{"zulu", "alpha", "mike"} {
		require.NoError(t, reg.Register(simpleClass(t, id, 100)))
	}

	var ids []string
	for _, def := range reg.List() {
		ids = append(ids, def.ClassID)
	}
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, ids)
}

func TestClassifyAllRanking(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(simpleClass(t, "far", 200)))
	require.NoError(t, reg.Register(simpleClass(t, "near", 100)))

	a := artifact.Artifact{ID: "find1", Features: artifact.Features{
		"length": artifact.Number(105),
	}}
	results := reg.ClassifyAll(a)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].ClassID)
	assert.Equal(t, "far", results[1].ClassID)
	assert.Greater(t, results[0].Confidence, results[1].Confidence)

	best, ok := reg.Classify(a)
	require.True(t, ok)
	assert.Equal(t, "near", best.ClassID)
}

func TestClassifyAllTieBreaksByClassID(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(simpleClass(t, "beta", 100)))
	require.NoError(t, reg.Register(simpleClass(t, "alpha", 100)))

	results := reg.ClassifyAll(artifact.Artifact{ID: "x", Features: artifact.Features{
		"length": artifact.Number(100),
	}})
	require.Len(t, results, 2)
	assert.Equal(t, "alpha", results[0].ClassID)
	assert.Equal(t, "beta", results[1].ClassID)
}

func TestClassifyEmptyRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	_, ok := reg.Classify(artifact.Artifact{ID: "x"})
	assert.False(t, ok)
	assert.Empty(t, reg.ClassifyAll(artifact.Artifact{ID: "x"}))
}

func TestClassificationLog(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(simpleClass(t, "alpha", 100)))

	reg.ClassifyAll(artifact.Artifact{ID: "find1", Features: artifact.Features{
		"length": artifact.Number(100),
	}})
	reg.ClassifyAll(artifact.Artifact{ID: "find2", Features: artifact.Features{
		"length": artifact.Number(150),
	}})

	log := reg.ClassificationLog()
	require.Len(t, log, 2)
	assert.Equal(t, "find1", log[0].ArtifactID)
	assert.Equal(t, "alpha", log[0].BestClass)
	assert.Equal(t, 1.0, log[0].Confidence)
	assert.False(t, log[0].Timestamp.IsZero())

	// The log is transient: it never round-trips through export.
	doc := reg.Export()
	fresh := NewRegistry(nil)
	require.NoError(t, fresh.Import(doc))
	assert.Empty(t, fresh.ClassificationLog())
}

func TestStats(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(simpleClass(t, "alpha", 100)))
	require.NoError(t, reg.Register(simpleClass(t, "beta", 200)))
	reg.ClassifyAll(artifact.Artifact{ID: "x", Features: artifact.Features{
		"length": artifact.Number(100),
	}})

	s := reg.Stats()
	assert.Equal(t, 2, s.Classes)
	assert.Equal(t, 0, s.Modifications)
	assert.Equal(t, 1, s.Classifications)
	require.Contains(t, s.PerClass, "alpha")
	assert.Equal(t, 1, s.PerClass["alpha"].Parameters)
	assert.Equal(t, 0.5, s.PerClass["alpha"].ConfidenceThreshold)
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Register(simpleClass(t, "seed", 100)))

	defs := make([]*taxon.ClassDefinition, 8)
	for i := range defs {
		defs[i] = simpleClass(t, fmt.Sprintf("class-%d", i), 100)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = reg.Register(defs[i])
		}(i)
		go func(i int) {
			defer wg.Done()
			reg.ClassifyAll(artifact.Artifact{
				ID:       fmt.Sprintf("find-%d", i),
				Features: artifact.Features{"length": artifact.Number(100)},
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 9, reg.Len())
	assert.Len(t, reg.ClassificationLog(), 8)
}
