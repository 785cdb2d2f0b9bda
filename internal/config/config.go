// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Defaults for the scheduling and retry surface.
const (
	DefaultUpdateCron     = "0 * * * *"
	DefaultDeadlineCron   = "0 9 * * *"
	DefaultTimezone       = "UTC"
	DefaultJobMaxAttempts = 3
	DefaultJobBackoffBase = 2 * time.Second
	DefaultJobQueueSize   = 64
)

// DefaultDebtMarkers are the description markers that identify debt
// repayment transactions when no override is configured.
var DefaultDebtMarkers = []string{"loan", "debt", "credit", "repayment"}

// Config holds all configuration for the application.
type Config struct {
	DatabaseURL    string
	LogLevel       string
	UpdateCron     string
	DeadlineCron   string
	Timezone       string
	JobMaxAttempts int
	JobBackoffBase time.Duration
	JobQueueSize   int
	DebtMarkers    []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		UpdateCron:     DefaultUpdateCron,
		DeadlineCron:   DefaultDeadlineCron,
		Timezone:       DefaultTimezone,
		JobMaxAttempts: DefaultJobMaxAttempts,
		JobBackoffBase: DefaultJobBackoffBase,
		JobQueueSize:   DefaultJobQueueSize,
		DebtMarkers:    DefaultDebtMarkers,
	}

	if spec := os.Getenv("UPDATE_CRON"); spec != "" {
		cfg.UpdateCron = spec
	}
	if spec := os.Getenv("DEADLINE_CRON"); spec != "" {
		cfg.DeadlineCron = spec
	}
	if tz := os.Getenv("SCHEDULER_TIMEZONE"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			cfg.Timezone = tz
		}
	}
	if s := os.Getenv("JOB_MAX_ATTEMPTS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			cfg.JobMaxAttempts = n
		}
	}
	if s := os.Getenv("JOB_BACKOFF_BASE"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			cfg.JobBackoffBase = d
		}
	}
	if s := os.Getenv("JOB_QUEUE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			cfg.JobQueueSize = n
		}
	}

	if markersStr := os.Getenv("DEBT_MARKERS"); markersStr != "" {
		var markers []string
		for _, marker := range strings.Split(markersStr, ",") {
			marker = strings.ToLower(strings.TrimSpace(marker))
			if marker == "" {
				continue
			}
			markers = append(markers, marker)
		}
		if len(markers) > 0 {
			cfg.DebtMarkers = markers
		}
	}

	// Validate required configuration.
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present and parseable.
func (c *Config) validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if _, err := cron.ParseStandard(c.UpdateCron); err != nil {
		errs = append(errs, fmt.Sprintf("UPDATE_CRON %q is not a valid cron expression", c.UpdateCron))
	}
	if _, err := cron.ParseStandard(c.DeadlineCron); err != nil {
		errs = append(errs, fmt.Sprintf("DEADLINE_CRON %q is not a valid cron expression", c.DeadlineCron))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Location resolves the scheduler timezone. Falls back to UTC on a bad name
// so a misconfigured timezone never takes the scheduler down.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
