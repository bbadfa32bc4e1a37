// Package config loads engine settings from an optional YAML file with
// sensible defaults, so the demo driver runs with no file at all.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Workdir string `mapstructure:"workdir"`
	} `mapstructure:"storage"`

	Logging struct {
		Level  string `mapstructure:"level"`
		SeqURL string `mapstructure:"seq_url"`
	} `mapstructure:"logging"`
}

// Load reads the config file at path, or returns the defaults when path
// is empty. RELDB_* environment variables override both, with dots
// mapped to underscores (RELDB_LOGGING_LEVEL overrides logging.level).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("app_name", "reldb")
	v.SetDefault("storage.workdir", "db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.seq_url", "")

	v.SetEnvPrefix("RELDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Level maps the configured level name onto a slog level, defaulting to
// Info for anything unrecognized.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
