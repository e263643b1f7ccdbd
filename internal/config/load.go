package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/AxM133/memoryloop/internal/domain"
)

// Load reads configuration from environment variables and optionally a
// config file. Environment variables (prefix MEMORYLOOP_, nested keys
// joined with underscores, e.g. MEMORYLOOP_SERVER_PORT) take precedence
// over values from the config file, which takes precedence over defaults.
// Returns a populated Config struct or an error if loading or validation
// fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("memoryloop")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/memoryloop")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults and env cover everything.
	}

	v.SetEnvPrefix("MEMORYLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Stage lists cannot be expressed as a scalar default, so an absent or
	// empty list falls back here instead of in setDefaults.
	if len(cfg.SRS.Stages) == 0 {
		for _, st := range domain.DefaultSettings().Stages {
			cfg.SRS.Stages = append(cfg.SRS.Stages, StageConfig{
				Title:   st.Title,
				Seconds: st.Seconds,
			})
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every scalar key so that
// env-only configuration round-trips through Unmarshal.
func setDefaults(v *viper.Viper) {
	defaults := domain.DefaultSettings()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("storage.path", "memoryloop.db")
	v.SetDefault("match.mode", string(defaults.Mode))
	v.SetDefault("match.fuzzy_threshold", defaults.FuzzyThreshold)
	v.SetDefault("srs.auto_cycle_default", defaults.AutoCycleDefault)
}
