// Package worker holds the runtime scaffolding for the digest worker:
// configuration, health endpoints and job metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"stockwatch/pkg/config"
)

// Config controls the digest worker's schedule and operational limits.
type Config struct {
	// CronSchedule is a standard 5-field cron expression.
	CronSchedule string
	// Timezone is an IANA timezone name used for scheduling.
	Timezone string
	// DigestTimeout bounds a single digest run.
	DigestTimeout time.Duration
	// HealthPort serves the liveness, readiness and metrics endpoints.
	HealthPort int
}

// DefaultConfig returns the production defaults: one run per day before
// US market open, with a generous timeout.
func DefaultConfig() Config {
	return Config{
		CronSchedule:  "30 5 * * *",
		Timezone:      "America/New_York",
		DigestTimeout: 30 * time.Minute,
		HealthPort:    9091,
	}
}

// Validate checks every field and aggregates the failures.
func (c *Config) Validate() error {
	var errs []error

	if _, err := cron.ParseStandard(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.DigestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("digest timeout: %w", err))
	}
	if c.HealthPort < 1024 || c.HealthPort > 65535 {
		errs = append(errs, fmt.Errorf("health port: %d out of range 1024-65535", c.HealthPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv reads the worker configuration from the environment.
// Invalid values fall back to the default for that field with a warning,
// so a misconfigured environment never prevents the worker from starting.
func LoadConfigFromEnv(logger *slog.Logger) Config {
	cfg := DefaultConfig()
	defaults := DefaultConfig()

	cfg.CronSchedule = config.GetEnvString("DIGEST_CRON_SCHEDULE", cfg.CronSchedule)
	if _, err := cron.ParseStandard(cfg.CronSchedule); err != nil {
		logger.Warn("invalid DIGEST_CRON_SCHEDULE, using default",
			slog.String("value", cfg.CronSchedule),
			slog.String("default", defaults.CronSchedule),
			slog.Any("error", err))
		cfg.CronSchedule = defaults.CronSchedule
	}

	cfg.Timezone = config.GetEnvString("WORKER_TIMEZONE", cfg.Timezone)
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		logger.Warn("invalid WORKER_TIMEZONE, using default",
			slog.String("value", cfg.Timezone),
			slog.String("default", defaults.Timezone),
			slog.Any("error", err))
		cfg.Timezone = defaults.Timezone
	}

	cfg.DigestTimeout = config.GetEnvDuration("DIGEST_TIMEOUT", cfg.DigestTimeout)
	if cfg.DigestTimeout < time.Minute || cfg.DigestTimeout > 4*time.Hour {
		logger.Warn("DIGEST_TIMEOUT out of range 1m-4h, using default",
			slog.Duration("value", cfg.DigestTimeout),
			slog.Duration("default", defaults.DigestTimeout))
		cfg.DigestTimeout = defaults.DigestTimeout
	}

	cfg.HealthPort = config.GetEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort)
	if cfg.HealthPort < 1024 || cfg.HealthPort > 65535 {
		logger.Warn("WORKER_HEALTH_PORT out of range, using default",
			slog.Int("value", cfg.HealthPort),
			slog.Int("default", defaults.HealthPort))
		cfg.HealthPort = defaults.HealthPort
	}

	return cfg
}
