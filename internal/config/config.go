// Package config loads runtime settings for shelfexam from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every operator-tunable setting.
type Config struct {
	// DBPath overrides the default SQLite location when set.
	DBPath string `env:"SHELFEXAM_DB"`

	// QuestionGlob selects the CSV question sources.
	QuestionGlob string `env:"SHELFEXAM_QUESTIONS" envDefault:"*.csv"`

	// ImagesDir holds optional <id>.<ext> question images.
	ImagesDir string `env:"SHELFEXAM_IMAGES_DIR" envDefault:"images"`

	// RosterPath is the TOML file mapping passcodes to participants.
	RosterPath string `env:"SHELFEXAM_ROSTER" envDefault:"roster.toml"`

	ExclusionWindow     time.Duration `env:"SHELFEXAM_EXCLUSION_WINDOW" envDefault:"168h"`
	LockDuration        time.Duration `env:"SHELFEXAM_LOCK_DURATION" envDefault:"6h"`
	RecommendationDelay time.Duration `env:"SHELFEXAM_RECOMMENDATION_DELAY" envDefault:"48h"`
	PasscodeValidity    time.Duration `env:"SHELFEXAM_PASSCODE_VALIDITY" envDefault:"600h"`
	SessionSize         int           `env:"SHELFEXAM_SESSION_SIZE" envDefault:"5"`

	SMTP SMTPConfig `envPrefix:"SHELFEXAM_SMTP_"`

	LogLevel string `env:"SHELFEXAM_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"SHELFEXAM_LOG_FILE"`
}

// SMTPConfig configures review mail delivery. An empty Host selects the
// log-only mailer.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// Enabled reports whether an SMTP relay is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the exam engine cannot run with.
func (c Config) Validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"SHELFEXAM_EXCLUSION_WINDOW", c.ExclusionWindow},
		{"SHELFEXAM_LOCK_DURATION", c.LockDuration},
		{"SHELFEXAM_RECOMMENDATION_DELAY", c.RecommendationDelay},
		{"SHELFEXAM_PASSCODE_VALIDITY", c.PasscodeValidity},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.d)
		}
	}
	if c.SessionSize <= 0 {
		return fmt.Errorf("SHELFEXAM_SESSION_SIZE must be positive, got %d", c.SessionSize)
	}
	if c.SMTP.Enabled() && c.SMTP.From == "" {
		return fmt.Errorf("SHELFEXAM_SMTP_FROM is required when SHELFEXAM_SMTP_HOST is set")
	}
	return nil
}
