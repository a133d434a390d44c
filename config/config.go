// Package config loads contentpack configuration with Viper: a TOML
// file plus CONTENTPACK_-prefixed environment overrides.
package config

import (
	"github.com/spf13/viper"
)

// Config is the full tool configuration.
type Config struct {
	Output OutputConfig `mapstructure:"output"`
	Source SourceConfig `mapstructure:"source"`
	Writer WriterConfig `mapstructure:"writer"`
	Watch  WatchConfig  `mapstructure:"watch"`
	Log    LogConfig    `mapstructure:"log"`
}

// OutputConfig controls the artifact root.
type OutputConfig struct {
	// Root is the directory the generated package is written under.
	Root string `mapstructure:"root"`
}

// SourceConfig locates the content source.
type SourceConfig struct {
	// ContentDir holds the document files.
	ContentDir string `mapstructure:"content_dir"`
	// SchemaFile is the YAML schema definition.
	SchemaFile string `mapstructure:"schema_file"`
}

// WriterConfig tunes the selective writer.
type WriterConfig struct {
	// MaxConcurrent bounds concurrent artifact writes within one pass.
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// DebounceMs coalesces rapid file events before re-fetching a snapshot.
	DebounceMs int `mapstructure:"debounce_ms"`
	// MaxPassesPerMinute rate-limits regeneration under sustained churn.
	MaxPassesPerMinute int `mapstructure:"max_passes_per_minute"`
}

// LogConfig controls log output format.
type LogConfig struct {
	// JSON switches structured JSON output on.
	JSON bool `mapstructure:"json"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.root", ".contentpack")
	v.SetDefault("source.content_dir", "content")
	v.SetDefault("source.schema_file", "schema.yaml")

	v.SetDefault("writer.max_concurrent", 16) // disjoint paths, bounded fan-out

	v.SetDefault("watch.debounce_ms", 200)       // coalesce editor save bursts
	v.SetDefault("watch.max_passes_per_minute", 120)

	v.SetDefault("log.json", false)
}
