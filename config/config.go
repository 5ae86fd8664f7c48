// Package config provides taxon configuration: engine defaults for the
// class builder and discovery, the default taxonomy file location, and
// CLI behavior. Configuration is read from ~/.taxon/config.toml with
// TAXON_-prefixed environment variable overrides.
package config

// Config is the taxon configuration tree.
type Config struct {
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy"`
	Builder  BuilderConfig  `mapstructure:"builder"`
	Discover DiscoverConfig `mapstructure:"discover"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Log      LogConfig      `mapstructure:"log"`
}

// TaxonomyConfig locates the working taxonomy document.
type TaxonomyConfig struct {
	Path string `mapstructure:"path"` // taxonomy export/import file
	// IncludePresets loads the built-in Savignano classes into new
	// taxonomies created by the CLI.
	IncludePresets bool `mapstructure:"include_presets"`
}

// BuilderConfig carries class-derivation defaults.
type BuilderConfig struct {
	ToleranceFactor     float64 `mapstructure:"tolerance_factor"`     // default 0.15
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"` // default 0.75
	Operator            string  `mapstructure:"operator"`             // recorded as created_by / change operator
}

// DiscoverConfig carries class-discovery defaults.
type DiscoverConfig struct {
	MinClusterSize int    `mapstructure:"min_cluster_size"` // default 5
	NamePrefix     string `mapstructure:"name_prefix"`      // default "discovered"
}

// WatchConfig tunes the artifact drop-directory watcher.
type WatchConfig struct {
	DebounceMillis int `mapstructure:"debounce_ms"` // default 500
}

// LogConfig selects log output.
type LogConfig struct {
	JSON bool `mapstructure:"json"` // structured JSON instead of console output
}
