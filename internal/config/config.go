// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PLACEIP_CACHE_SIZE.
const EnvPrefix = "PLACEIP"

// Config holds all configuration for placeip
type Config struct {
	Data  DataConfig  `mapstructure:"data"`
	Cache CacheConfig `mapstructure:"cache"`
	Log   LogConfig   `mapstructure:"log"`
	REPL  REPLConfig  `mapstructure:"repl"`
}

// DataConfig describes the range file to index
type DataConfig struct {
	File string `mapstructure:"file"`
	// Show dumps every indexed entry after loading.
	Show bool `mapstructure:"show"`
}

// CacheConfig sizes the lookup cache. A size of zero disables it.
type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// LogConfig holds logging related configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// REPLConfig holds interactive loop configuration
type REPLConfig struct {
	Prompt string `mapstructure:"prompt"`
}

// RegisterFlags declares the command line flags Load understands.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.Int("cache-size", 1024, "number of lookups to cache, 0 disables the cache")
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.String("prompt", "> ", "prompt printed before each query")
	fs.Bool("show", false, "print every indexed entry after loading")
}

// Load merges defaults, the optional config file, environment variables
// and parsed flags, in increasing order of precedence. A single positional
// argument names the data file.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	for key, flag := range map[string]string{
		"cache.size":  "cache-size",
		"log.level":   "log-level",
		"repl.prompt": "prompt",
		"data.show":   "show",
	} {
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs.NArg() > 0 {
		v.Set("data.file", fs.Arg(0))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("data.file", "")
	v.SetDefault("data.show", false)
	v.SetDefault("cache.size", 1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("repl.prompt", "> ")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Data.File == "" {
		return fmt.Errorf("data file is required")
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("invalid cache size: %d", c.Cache.Size)
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}
	return nil
}

// ParseLevel returns the zerolog level named by the configuration.
func (c *LogConfig) ParseLevel() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return lvl, nil
}
