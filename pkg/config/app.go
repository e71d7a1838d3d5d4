package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig carries the optional file-based settings that have no natural
// environment-variable shape, chiefly per-ticker logo domain overrides and
// board pacing. All fields are optional; zero values mean "use the default".
type AppConfig struct {
	Board struct {
		StaggerMS      int `yaml:"stagger_ms"`
		IdleTTLMinutes int `yaml:"idle_ttl_minutes"`
	} `yaml:"board"`
	Logo struct {
		Domains map[string]string `yaml:"domains"`
	} `yaml:"logo"`
}

// LoadAppConfig loads application configuration from a YAML file.
// The path is provided by the operator (env var or CLI), not user input.
func LoadAppConfig(path string) (*AppConfig, error) {
	// #nosec G304 -- path comes from a trusted operator-controlled source
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateAppConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func validateAppConfig(cfg *AppConfig) error {
	if cfg.Board.StaggerMS < 0 || cfg.Board.StaggerMS > 10000 {
		return fmt.Errorf("board.stagger_ms must be between 0 and 10000, got %d", cfg.Board.StaggerMS)
	}
	if cfg.Board.IdleTTLMinutes < 0 {
		return fmt.Errorf("board.idle_ttl_minutes must not be negative, got %d", cfg.Board.IdleTTLMinutes)
	}
	for ticker, domain := range cfg.Logo.Domains {
		if ticker == "" || domain == "" {
			return fmt.Errorf("logo.domains entries need both a ticker and a domain")
		}
	}
	return nil
}

// Stagger returns the configured card-load stagger, or def when unset.
func (c *AppConfig) Stagger(def time.Duration) time.Duration {
	if c == nil || c.Board.StaggerMS == 0 {
		return def
	}
	return time.Duration(c.Board.StaggerMS) * time.Millisecond
}

// IdleTTL returns the configured board idle lifetime, or def when unset.
func (c *AppConfig) IdleTTL(def time.Duration) time.Duration {
	if c == nil || c.Board.IdleTTLMinutes == 0 {
		return def
	}
	return time.Duration(c.Board.IdleTTLMinutes) * time.Minute
}
