package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("taxonomy.path", DefaultTaxonomyPath())
	v.SetDefault("taxonomy.include_presets", true)

	v.SetDefault("builder.tolerance_factor", 0.15)
	v.SetDefault("builder.confidence_threshold", 0.75)
	v.SetDefault("builder.operator", defaultOperator())

	v.SetDefault("discover.min_cluster_size", 5)
	v.SetDefault("discover.name_prefix", "discovered")

	v.SetDefault("watch.debounce_ms", 500)

	v.SetDefault("log.json", false)
}

// Dir returns the taxon configuration directory (~/.taxon).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taxon"
	}
	return filepath.Join(home, ".taxon")
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultTaxonomyPath returns the default taxonomy document location.
func DefaultTaxonomyPath() string {
	return filepath.Join(Dir(), "taxonomy.json")
}

func defaultOperator() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "taxon"
}
