// Package config loads runtime settings from a YAML file, CREDITRISK_* env vars and flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"credit-risk-lab/internal/domain"
	"credit-risk-lab/internal/logging"
)

// EnvPrefix is prepended to every environment override, e.g. CREDITRISK_WOE_TARGET.
const EnvPrefix = "CREDITRISK"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
)

// Config is the full application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Features FeaturesConfig `mapstructure:"features"`
	WoE      WoEConfig      `mapstructure:"woe"`
	Binning  BinningConfig  `mapstructure:"binning"`
	Model    ModelConfig    `mapstructure:"model"`
	Server   ServerConfig   `mapstructure:"server"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
}

type StorageConfig struct {
	Backend          string `mapstructure:"backend"`
	PostgresDSN      string `mapstructure:"postgres_dsn"`
	ClickhouseDSN    string `mapstructure:"clickhouse_dsn"`
	PostgresMaxConns int32  `mapstructure:"postgres_max_conns"`
}

type FeaturesConfig struct {
	Workers int `mapstructure:"workers"`
}

type WoEConfig struct {
	Target  string `mapstructure:"target"`
	Workers int    `mapstructure:"workers"`
}

type BinningConfig struct {
	Bins    int      `mapstructure:"bins"`
	Exclude []string `mapstructure:"exclude"`
}

type ModelConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.dir", "")
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.clickhouse_dsn", "")
	v.SetDefault("storage.postgres_max_conns", 0)
	v.SetDefault("features.workers", 4)
	v.SetDefault("woe.target", domain.DefaultTargetColumn)
	v.SetDefault("woe.workers", 4)
	v.SetDefault("binning.bins", 5)
	v.SetDefault("binning.exclude", []string{})
	v.SetDefault("model.path", "")
	v.SetDefault("server.addr", ":8080")
}

// Load reads path (if non-empty) into v, applies env overrides and defaults,
// and returns the validated config. Flags bound to v beforehand take precedence.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("creditrisk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	if _, err := logging.ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("logging.format: invalid format %q", c.Logging.Format)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQL:
		if c.Storage.PostgresDSN == "" || c.Storage.ClickhouseDSN == "" {
			return errors.New("storage: sql backend needs postgres_dsn and clickhouse_dsn")
		}
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}

	if strings.TrimSpace(c.WoE.Target) == "" {
		return errors.New("woe.target: must not be empty")
	}
	if c.Features.Workers < 0 {
		return errors.New("features.workers: must not be negative")
	}
	if c.WoE.Workers < 0 {
		return errors.New("woe.workers: must not be negative")
	}
	if c.Binning.Bins < 2 {
		return errors.New("binning.bins: must be at least 2")
	}
	return nil
}

// LoggingOptions converts the logging section for logging.New.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Dir:    c.Logging.Dir,
	}
}
