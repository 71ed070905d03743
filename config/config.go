// Package config loads engine configuration from hqlc.toml using Viper.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/hlvm-dev/hqlc/errors"
)

// Config holds the tunable knobs of the completion engine.
type Config struct {
	Index    IndexConfig    `mapstructure:"index"`
	Session  SessionConfig  `mapstructure:"session"`
	Dropdown DropdownConfig `mapstructure:"dropdown"`
	Limits   LimitsConfig   `mapstructure:"limits"`
}

// IndexConfig configures the file indexer.
type IndexConfig struct {
	// TTLSeconds is how long a built index snapshot stays valid.
	TTLSeconds int `mapstructure:"ttl_seconds"`
	// MaxDepth bounds the directory walk.
	MaxDepth int `mapstructure:"max_depth"`
	// ExtraSkipDirs are pruned in addition to the built-in skip set.
	ExtraSkipDirs []string `mapstructure:"extra_skip_dirs"`
	// Watch enables fsnotify-based snapshot invalidation.
	Watch bool `mapstructure:"watch"`
}

// SessionConfig configures the async query pipeline.
type SessionConfig struct {
	// DebounceMs is the delay before an async provider issues I/O.
	DebounceMs int `mapstructure:"debounce_ms"`
}

// DropdownConfig configures the visible window.
type DropdownConfig struct {
	// VisibleRows is the fixed row count of the rendered dropdown.
	VisibleRows int `mapstructure:"visible_rows"`
}

// LimitsConfig bounds result counts per provider.
type LimitsConfig struct {
	// SymbolTyped caps symbol results once a prefix has been typed.
	SymbolTyped int `mapstructure:"symbol_typed"`
	// SymbolBrowse caps symbol results when browsing with an empty prefix.
	SymbolBrowse int `mapstructure:"symbol_browse"`
	// FileResults caps file search results.
	FileResults int `mapstructure:"file_results"`
}

// IndexTTL returns the snapshot lifetime as a duration.
func (c *Config) IndexTTL() time.Duration {
	return time.Duration(c.Index.TTLSeconds) * time.Second
}

// Debounce returns the async provider delay as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Session.DebounceMs) * time.Millisecond
}

var globalConfig *Config

// SetDefaults registers default values on a Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("index.ttl_seconds", 30)
	v.SetDefault("index.max_depth", 10)
	v.SetDefault("index.extra_skip_dirs", []string{})
	v.SetDefault("index.watch", false)
	v.SetDefault("session.debounce_ms", 80)
	v.SetDefault("dropdown.visible_rows", 10)
	v.SetDefault("limits.symbol_typed", 8)
	v.SetDefault("limits.symbol_browse", 30)
	v.SetDefault("limits.file_results", 20)
}

// Default returns a config populated with defaults only.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Unmarshal of pure defaults cannot fail
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from the standard locations, falling back to
// defaults when no file exists. The result is cached.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := viper.New()
	v.SetConfigName("hqlc")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "hqlc"))
	}
	v.SetEnvPrefix("HQLC")
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
		// No config file is fine; defaults apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// Reset clears the cached config. Intended for tests.
func Reset() {
	globalConfig = nil
}
