// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Defaults applied by Defaults() when neither the config file nor a flag sets a value
const (
	DefaultServerURL = "http://localhost:8080"
	DefaultPort      = 8080
	DefaultOutDir    = "."
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Resume  string `json:"resume,omitempty"`   // Path to the resume PDF
	Job     string `json:"job,omitempty"`      // Path to job description text file
	JobText string `json:"job_text,omitempty"` // Inline job description

	// Client
	ServerURL string `json:"server_url,omitempty"` // Base URL of the optimizer API
	OutDir    string `json:"out_dir,omitempty"`    // Directory the .tex artifact is written to
	Copy      bool   `json:"copy,omitempty"`       // Copy the artifact to the clipboard
	NoRetry   bool   `json:"no_retry,omitempty"`   // Never prompt for a retry after failure
	Verbose   bool   `json:"verbose,omitempty"`    // Print detailed debug information

	// Server
	Port                     int    `json:"port,omitempty"`
	APIKey                   string `json:"api_key,omitempty"`        // Gemini API key
	SerpAPIKey               string `json:"serp_api_key,omitempty"`   // SerpAPI key for Google Scholar
	ScopusAPIKey             string `json:"scopus_api_key,omitempty"` // Elsevier Scopus key
	MaxConcurrentGenerations int    `json:"max_concurrent_generations,omitempty"`
	MaxUploadBytes           int64  `json:"max_upload_bytes,omitempty"`
}

// Defaults returns the built-in fallback configuration.
func Defaults() Config {
	return Config{
		ServerURL: DefaultServerURL,
		OutDir:    DefaultOutDir,
		Port:      DefaultPort,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
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

// Validate checks that the configuration has valid values.
// Required inputs are checked by each command after flags are merged.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobText != "" {
		return fmt.Errorf("config error: 'job' and 'job_text' are mutually exclusive")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxConcurrentGenerations < 0 {
		return fmt.Errorf("config error: 'max_concurrent_generations' must be non-negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}

	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: 'server_url' must be an http(s) URL: %s", c.ServerURL)
		}
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

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer config file and environment values under CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" && result.JobText == "" {
		result.Job = defaults.Job
		result.JobText = defaults.JobText
	}
	if result.ServerURL == "" {
		result.ServerURL = defaults.ServerURL
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SerpAPIKey == "" {
		result.SerpAPIKey = defaults.SerpAPIKey
	}
	if result.ScopusAPIKey == "" {
		result.ScopusAPIKey = defaults.ScopusAPIKey
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxConcurrentGenerations == 0 {
		result.MaxConcurrentGenerations = defaults.MaxConcurrentGenerations
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
