// Package config provides Viper-based hierarchical configuration: defaults,
// then an optional YAML config file, then MOVIMIENTOS_-prefixed environment
// variables. A .env file is honored when present.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		// Directory holds the SQLite database and exported reports.
		Directory string `mapstructure:"directory" yaml:"directory"`
		// Database is the SQLite file path; relative paths resolve
		// against Directory.
		Database string `mapstructure:"database" yaml:"database"`
	} `mapstructure:"data" yaml:"data"`

	Rules struct {
		// Directory with the YAML rule tables; empty means the built-in
		// search path (cwd, config/, ~/.config/movimientos).
		Directory string `mapstructure:"directory" yaml:"directory"`
		// GroundTruth is the historical classification CSV the exact-match
		// table is built from. Optional.
		GroundTruth string `mapstructure:"ground_truth" yaml:"ground_truth"`
	} `mapstructure:"rules" yaml:"rules"`

	Pairing struct {
		// MaxDayGap caps the date gap for transfer pairing, in days.
		MaxDayGap int `mapstructure:"max_day_gap" yaml:"max_day_gap"`
	} `mapstructure:"pairing" yaml:"pairing"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"-"` // never serialized
	} `mapstructure:"ai" yaml:"ai"`
}

var loadEnvOnce sync.Once

// LoadEnv loads a .env file from the working directory once, if present.
func LoadEnv() {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load builds the configuration: defaults, optional config.yaml, then
// environment variables.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.config/movimientos")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MOVIMIENTOS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// The API key always comes from the conventional unprefixed variable.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding GEMINI_API_KEY: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.directory", "data")
	v.SetDefault("data.database", "movimientos.db")

	v.SetDefault("rules.directory", "")
	v.SetDefault("rules.ground_truth", "")

	v.SetDefault("pairing.max_day_gap", 7)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
}

func validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	if cfg.Pairing.MaxDayGap < 0 {
		return fmt.Errorf("pairing.max_day_gap must not be negative, got %d", cfg.Pairing.MaxDayGap)
	}
	if cfg.AI.Enabled && cfg.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
	}
	return nil
}

// DatabasePath resolves the SQLite file location.
func (c *Config) DatabasePath() string {
	if strings.HasPrefix(c.Data.Database, "/") || c.Data.Database == ":memory:" {
		return c.Data.Database
	}
	return c.Data.Directory + "/" + c.Data.Database
}
