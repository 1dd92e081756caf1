// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPort is the default HTTP listen port.
const DefaultPort = 8080

// Config is the configuration loadable from a JSON file. All fields are
// optional; missing values fall back to defaults or CLI flags.
type Config struct {
	// Inputs
	Resume      string `json:"resume,omitempty"`       // Path to resume text file
	Job         string `json:"job,omitempty"`          // Path to job posting text file
	JobURL      string `json:"job_url,omitempty"`      // URL to fetch job posting from
	CompanySeed string `json:"company_seed,omitempty"` // Company seed URL for research material

	// Behavior
	APIKey         string `json:"api_key,omitempty"`         // Gemini API key
	DatabaseURL    string `json:"database_url,omitempty"`    // PostgreSQL connection URL
	Port           int    `json:"port,omitempty"`            // HTTP listen port
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // Generation call timeout
	UseBrowser     bool   `json:"use_browser,omitempty"`     // Use headless browser for SPA sites
	Verbose        bool   `json:"verbose,omitempty"`         // Print detailed debug information

	// Model tier overrides; empty values use the built-in Gemini defaults.
	Models map[string]string `json:"models,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are enforced by CLI flag validation after merging, not here.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}

	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Bool fields are not merged; CLI flags always win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.CompanySeed == "" {
		result.CompanySeed = defaults.CompanySeed
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if len(result.Models) == 0 {
		result.Models = defaults.Models
	}

	return result
}
