package fetcher

import (
	"fmt"
	"time"

	"stockwatch/pkg/config"
)

// ContentFetchConfig controls article content fetching used to enhance
// thin RSS descriptions before summarization.
type ContentFetchConfig struct {
	// Enabled toggles the feature. When false, RSS descriptions are used
	// as-is.
	Enabled bool

	// Threshold is the minimum description length in characters. Shorter
	// descriptions trigger a full-content fetch.
	Threshold int

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// MaxBodySize caps the response body in bytes.
	MaxBodySize int64

	// MaxRedirects limits redirect chains. Each target is revalidated.
	MaxRedirects int

	// DenyPrivateIPs rejects URLs resolving to private, loopback, or
	// link-local addresses.
	DenyPrivateIPs bool
}

// DefaultConfig returns production defaults for content fetching.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        true,
		Threshold:      200,
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks configuration bounds.
func (c *ContentFetchConfig) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	minBody := int64(1024)
	maxBody := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBody || c.MaxBodySize > maxBody {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBody, maxBody, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv builds a ContentFetchConfig from environment variables,
// falling back to defaults, and validates the result.
//
// Variables: CONTENT_FETCH_ENABLED, CONTENT_FETCH_THRESHOLD,
// CONTENT_FETCH_TIMEOUT, CONTENT_FETCH_MAX_BODY_SIZE,
// CONTENT_FETCH_MAX_REDIRECTS, CONTENT_FETCH_DENY_PRIVATE_IPS.
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	def := DefaultConfig()
	cfg := ContentFetchConfig{
		Enabled:        config.GetEnvBool("CONTENT_FETCH_ENABLED", def.Enabled),
		Threshold:      config.GetEnvInt("CONTENT_FETCH_THRESHOLD", def.Threshold),
		Timeout:        config.GetEnvDuration("CONTENT_FETCH_TIMEOUT", def.Timeout),
		MaxBodySize:    int64(config.GetEnvInt("CONTENT_FETCH_MAX_BODY_SIZE", int(def.MaxBodySize))),
		MaxRedirects:   config.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", def.MaxRedirects),
		DenyPrivateIPs: config.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", def.DenyPrivateIPs),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
