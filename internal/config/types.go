package config

import "time"

// Config represents the complete cv-terminal configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Source  SourceConfig  `yaml:"source"`
	API     APIConfig     `yaml:"api"`

	// Path is the file the configuration was loaded from. Empty when running on defaults.
	Path string `yaml:"-"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// LogFile receives logs. In repl mode logs are discarded when unset; serve mode
	// copies its stdout logs here.
	LogFile string `yaml:"log_file"`
}

// SourceConfig describes where the CV document comes from and how long it stays fresh.
type SourceConfig struct {
	URL     string        `yaml:"url"`
	TTL     time.Duration `yaml:"ttl"`
	Timeout time.Duration `yaml:"timeout"`
}

// APIConfig defines HTTP API server settings.
type APIConfig struct {
	Listen string `yaml:"listen"`
	// RateLimit is requests per second per client. Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// Defaults returns a Config with every field set to its default value.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "cv-terminal",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Source: SourceConfig{
			URL:     "https://st2projects.com/cv/cv.json",
			TTL:     5 * time.Minute,
			Timeout: 10 * time.Second,
		},
		API: APIConfig{
			Listen:    "127.0.0.1:8080",
			RateLimit: 10,
			Burst:     20,
		},
	}
}
