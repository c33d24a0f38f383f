// Package config provides configuration loading and management for the
// challenge generation service.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default settings applied when the config file omits a key.
const (
	DefaultModel          = "gemini-3-pro-preview"
	DefaultDBPath         = "data/brainstorm.db"
	DefaultDocsDir        = "data/documents"
	DefaultListen         = ":8080"
	DefaultTimeoutSeconds = 120
)

// Config is the root configuration.
type Config struct {
	Model          string `json:"model"           mapstructure:"model"`
	DBPath         string `json:"db_path"         mapstructure:"db_path"`
	DocsDir        string `json:"docs_dir"        mapstructure:"docs_dir"`
	Listen         string `json:"listen"          mapstructure:"listen"`
	TimeoutSeconds int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`

	// APIKey comes from the GEMINI_API_KEY environment variable (a local
	// .env file is honored), never from the config file.
	APIKey string `json:"-" mapstructure:"-"`
}

// CallTimeout is the per-call deadline for generation requests.
func (c Config) CallTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RequireAPIKey fails when no Gemini API key is configured. Commands that
// never call the model skip this check.
func (c Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	return nil
}

// Load reads configuration from the given JSON file, falling back to defaults
// when the file does not exist. Environment variables are loaded from .env
// when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("model", DefaultModel)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("docs_dir", DefaultDocsDir)
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("timeout_seconds", DefaultTimeoutSeconds)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
			if err := ValidateSettings(v.AllSettings()); err != nil {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.TimeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("timeout_seconds must be > 0")
	}
	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	return cfg, nil
}
