// Package config loads blogapi settings from defaults, an optional YAML file,
// BLOGAPI_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Articles ArticlesConfig `mapstructure:"articles"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	// Backend is "memory" or "badger".
	Backend string `mapstructure:"backend"`
	// BadgerDir is where Badger keeps its files; empty keeps Badger in memory.
	BadgerDir string `mapstructure:"badger_dir"`
}

// RedisConfig enables the activity feed when Addr is set.
type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type ArticlesConfig struct {
	Upsert bool `mapstructure:"upsert"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment binding set up.
// Flags can be bound to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("BLOGAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("store.backend", StoreMemory)
	v.SetDefault("store.badger_dir", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("articles.upsert", false)
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")
}

// Load reads cfgFile (or blogapi.yaml from the usual places when empty) and
// unmarshals the merged settings. A missing default config file is fine.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("blogapi")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreBadger:
	default:
		return fmt.Errorf("invalid store backend: %q (must be %s or %s)", c.Store.Backend, StoreMemory, StoreBadger)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Log.Level)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q (must be console or json)", c.Log.Format)
	}
	return nil
}
