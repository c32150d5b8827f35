package main

import (
	"fmt"
	"os"
	"time"

	yaml "go.yaml.in/yaml/v2"
)

// Config represents the structure of the configuration YAML file.
//
// Example:
//
//	providers:
//	  - name: openai
//	    api_key: sk-...
//	    model: gpt-4o
//	    enabled: true
//	  - name: anthropic
//	    api_key: sk-ant-...
//	    enabled: true
//	mode: deep
//	call_timeout_seconds: 120
//	archive:
//	  driver: sqlite
//	  dsn: ./consensus.db
type Config struct {
	Providers []ProviderConfig `yaml:"providers"`
	Mode      string           `yaml:"mode"`
	// CallTimeoutSeconds bounds each completion call. Zero keeps the
	// library default.
	CallTimeoutSeconds int           `yaml:"call_timeout_seconds"`
	Archive            ArchiveConfig `yaml:"archive"`
}

// ProviderConfig configures one agent. Name must be one of: openai,
// anthropic, google, perplexity. Only enabled providers with a key join
// the deliberation.
type ProviderConfig struct {
	Name    string `yaml:"name"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Enabled bool   `yaml:"enabled"`
}

// ArchiveConfig selects the optional transcript archive backend.
// Driver is "sqlite", "mysql", or empty for no archival.
type ArchiveConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// loadConfig loads and parses a YAML configuration file.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return &config, nil
}

// callTimeout converts the configured seconds to a duration, negative when
// unset so the caller can keep the library default.
func (c *Config) callTimeout() time.Duration {
	if c.CallTimeoutSeconds <= 0 {
		return -1
	}
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}
