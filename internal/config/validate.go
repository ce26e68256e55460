package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535] (got %d)", c.Server.Port)
	}

	if err := c.Upstream.validate(); err != nil {
		return fmt.Errorf("upstream: %w", err)
	}

	if c.RateLimit.MaxPerMinute <= 0 {
		return fmt.Errorf("rate_limit.max_per_minute must be > 0 (got %d)", c.RateLimit.MaxPerMinute)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %v)", c.RateLimit.CleanupInterval)
	}

	return nil
}

func (u *UpstreamConfig) validate() error {
	if u.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	parsed, err := url.Parse(u.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint %q: %w", u.Endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("endpoint %q: scheme must be http or https", u.Endpoint)
	}

	if u.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", u.Timeout)
	}

	return nil
}
