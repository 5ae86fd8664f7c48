package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, DefaultTaxonomyPath(), cfg.Taxonomy.Path)
	assert.True(t, cfg.Taxonomy.IncludePresets)
	assert.Equal(t, 0.15, cfg.Builder.ToleranceFactor)
	assert.Equal(t, 0.75, cfg.Builder.ConfidenceThreshold)
	assert.NotEmpty(t, cfg.Builder.Operator)
	assert.Equal(t, 5, cfg.Discover.MinClusterSize)
	assert.Equal(t, "discovered", cfg.Discover.NamePrefix)
	assert.Equal(t, 500, cfg.Watch.DebounceMillis)
	assert.False(t, cfg.Log.JSON)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[taxonomy]
path = "/srv/dig/taxonomy.json"
include_presets = false

[builder]
tolerance_factor = 0.10
operator = "mt"

[discover]
min_cluster_size = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/dig/taxonomy.json", cfg.Taxonomy.Path)
	assert.False(t, cfg.Taxonomy.IncludePresets)
	assert.Equal(t, 0.10, cfg.Builder.ToleranceFactor)
	assert.Equal(t, "mt", cfg.Builder.Operator)
	assert.Equal(t, 8, cfg.Discover.MinClusterSize)

	// Options absent from the file keep their defaults.
	assert.Equal(t, 0.75, cfg.Builder.ConfidenceThreshold)
	assert.Equal(t, "discovered", cfg.Discover.NamePrefix)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestWriteStarterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	v := viper.New()
	SetDefaults(v)
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	cfg.Builder.Operator = "mr"
	cfg.Discover.NamePrefix = "emilia"

	require.NoError(t, WriteStarter(path, &cfg))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mr", loaded.Builder.Operator)
	assert.Equal(t, "emilia", loaded.Discover.NamePrefix)
	assert.Equal(t, cfg.Taxonomy.Path, loaded.Taxonomy.Path)
}

func TestWriteStarterRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("# existing"), 0644))

	err := WriteStarter(path, &Config{})
	assert.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "# existing", string(data))
}
