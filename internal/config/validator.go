package config

import (
	"fmt"
	"net"
	"net/url"
)

// validate checks field values and reports the first problem by its YAML path.
func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Service.LogLevel] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}
	if cfg.Service.LogFormat != "json" && cfg.Service.LogFormat != "text" {
		return fmt.Errorf("service.log_format must be one of: json, text (got %q)", cfg.Service.LogFormat)
	}
	if err := checkUnresolved("service.log_file", cfg.Service.LogFile); err != nil {
		return err
	}

	if err := checkUnresolved("source.url", cfg.Source.URL); err != nil {
		return err
	}
	u, err := url.Parse(cfg.Source.URL)
	if err != nil {
		return fmt.Errorf("source.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("source.url must use http or https (got %q)", cfg.Source.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("source.url must include a host (got %q)", cfg.Source.URL)
	}
	if cfg.Source.TTL < 0 {
		return fmt.Errorf("source.ttl must not be negative (got %s)", cfg.Source.TTL)
	}
	if cfg.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout must not be negative (got %s)", cfg.Source.Timeout)
	}

	if err := checkUnresolved("api.listen", cfg.API.Listen); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(cfg.API.Listen); err != nil {
		return fmt.Errorf("api.listen: %w", err)
	}
	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative (got %v)", cfg.API.RateLimit)
	}
	if cfg.API.Burst < 0 {
		return fmt.Errorf("api.burst must not be negative (got %d)", cfg.API.Burst)
	}

	return nil
}

func checkUnresolved(field, value string) error {
	matches := envVarPattern.FindStringSubmatch(value)
	if len(matches) > 1 {
		return fmt.Errorf("%s: environment variable ${%s} is not set", field, matches[1])
	}
	return nil
}
