// Package config loads Orangensaft's runtime configuration: which
// provider backs `run`, its model/credentials, and the tool-loop limits.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved provider/model/limits configuration for `run`.
type Config struct {
	Provider      string  `mapstructure:"provider"`
	Endpoint      string  `mapstructure:"endpoint"`
	APIKeyEnv     string  `mapstructure:"api_key_env"`
	APIKeyHash    string  `mapstructure:"api_key_hash"`
	Model         string  `mapstructure:"model"`
	Temperature   float64 `mapstructure:"temperature"`
	MaxToolRounds int     `mapstructure:"max_tool_rounds"`
	MaxToolCalls  int     `mapstructure:"max_tool_calls"`
	CacheURL      string  `mapstructure:"cache_url"`
	ConfirmTools  bool    `mapstructure:"confirm_tools"`
}

// Load reads orangensaft.yml/orangensaft.yaml if present, then layers
// ORANGENSAFT_* environment variables and documented defaults on top via
// Viper, mirroring the teacher's config.Load shape.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("provider", "heuristic")
	v.SetDefault("endpoint", "")
	v.SetDefault("api_key_env", "")
	v.SetDefault("api_key_hash", "")
	v.SetDefault("model", "")
	v.SetDefault("temperature", 0.0)
	v.SetDefault("max_tool_rounds", 10)
	v.SetDefault("max_tool_calls", 20)
	v.SetDefault("cache_url", "")
	v.SetDefault("confirm_tools", false)

	v.SetConfigName("orangensaft")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ORANGENSAFT")
	v.AutomaticEnv()
	for _, key := range []string{"provider", "endpoint", "api_key_env", "api_key_hash", "model", "temperature", "max_tool_rounds", "max_tool_calls", "cache_url", "confirm_tools"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	switch strings.ToLower(cfg.Provider) {
	case "noop", "heuristic", "sequence", "http", "stream":
	default:
		return fmt.Errorf("provider must be one of noop|heuristic|sequence|http|stream, got: %s", cfg.Provider)
	}
	if cfg.MaxToolRounds < 1 {
		return fmt.Errorf("max_tool_rounds must be at least 1, got: %d", cfg.MaxToolRounds)
	}
	if cfg.MaxToolCalls < 1 {
		return fmt.Errorf("max_tool_calls must be at least 1, got: %d", cfg.MaxToolCalls)
	}
	if cfg.Temperature < 0 {
		return fmt.Errorf("temperature must not be negative, got: %v", cfg.Temperature)
	}
	lower := strings.ToLower(cfg.Provider)
	if (lower == "http" || lower == "stream") && cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required for provider %q", cfg.Provider)
	}
	return nil
}
