package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/montelab/taxon/errors"
)

// fileConfig mirrors Config with toml tags for writing starter files.
type fileConfig struct {
	Taxonomy struct {
		Path           string `toml:"path"`
		IncludePresets bool   `toml:"include_presets"`
	} `toml:"taxonomy"`
	Builder struct {
		ToleranceFactor     float64 `toml:"tolerance_factor"`
		ConfidenceThreshold float64 `toml:"confidence_threshold"`
		Operator            string  `toml:"operator"`
	} `toml:"builder"`
	Discover struct {
		MinClusterSize int    `toml:"min_cluster_size"`
		NamePrefix     string `toml:"name_prefix"`
	} `toml:"discover"`
	Watch struct {
		DebounceMillis int `toml:"debounce_ms"`
	} `toml:"watch"`
	Log struct {
		JSON bool `toml:"json"`
	} `toml:"log"`
}

// WriteStarter writes a config file populated with the current effective
// configuration, creating the config directory if needed. An existing
// file is not overwritten.
func WriteStarter(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file %s already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrapf(err, "creating config directory for %s", path)
	}

	var fc fileConfig
	fc.Taxonomy.Path = cfg.Taxonomy.Path
	fc.Taxonomy.IncludePresets = cfg.Taxonomy.IncludePresets
	fc.Builder.ToleranceFactor = cfg.Builder.ToleranceFactor
	fc.Builder.ConfidenceThreshold = cfg.Builder.ConfidenceThreshold
	fc.Builder.Operator = cfg.Builder.Operator
	fc.Discover.MinClusterSize = cfg.Discover.MinClusterSize
	fc.Discover.NamePrefix = cfg.Discover.NamePrefix
	fc.Watch.DebounceMillis = cfg.Watch.DebounceMillis
	fc.Log.JSON = cfg.Log.JSON

	data, err := toml.Marshal(fc)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing config file %s", path)
	}
	return nil
}
