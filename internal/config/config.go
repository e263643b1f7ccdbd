// Package config loads and validates the application configuration from
// environment variables and an optional config file.
package config

import "github.com/AxM133/memoryloop/internal/domain"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Match   MatchConfig   `mapstructure:"match" validate:"required"`
	SRS     SRSConfig     `mapstructure:"srs" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig contains the snapshot database settings.
type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// MatchConfig contains the answer-matching settings.
type MatchConfig struct {
	Mode           string  `mapstructure:"mode" validate:"required,oneof=strict fuzzy"`
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold" validate:"gte=0,lte=1"`
}

// StageConfig is one stage schedule entry.
type StageConfig struct {
	Title   string `mapstructure:"title" validate:"required"`
	Seconds int    `mapstructure:"seconds" validate:"required,gt=0"`
}

// SRSConfig contains the stage schedule and item defaults.
type SRSConfig struct {
	Stages           []StageConfig `mapstructure:"stages" validate:"min=1,dive"`
	AutoCycleDefault bool          `mapstructure:"auto_cycle_default"`
}

// Settings converts the configured match and schedule groups into the
// domain settings snapshot the store is constructed with.
func (c *Config) Settings() domain.Settings {
	stages := make([]domain.SRSStage, len(c.SRS.Stages))
	for i, st := range c.SRS.Stages {
		stages[i] = domain.SRSStage{Title: st.Title, Seconds: st.Seconds}
	}

	return domain.Settings{
		Stages:           stages,
		Mode:             domain.MatchMode(c.Match.Mode),
		FuzzyThreshold:   c.Match.FuzzyThreshold,
		AutoCycleDefault: c.SRS.AutoCycleDefault,
	}
}
