// Package config loads the table spec.md §6 describes as the core's
// consumed configuration: model name, endpoint, credentials, sampling
// parameters, and an optional local on-device backend section.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LocalConfig selects an in-process local backend (spec.md §6) instead of
// the network transport.
type LocalConfig struct {
	Enabled bool `toml:"enabled"`
	// ModelPath names a model artifact for the in-process backend; the
	// core does not interpret it, the backend's own Handler does.
	ModelPath string `toml:"model_path,omitempty"`
}

// Config is the table the Forest's transport and agents are built from.
type Config struct {
	ModelName   string  `toml:"model_name"`
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`

	Local *LocalConfig `toml:"local,omitempty"`
}

// SetDefaults fills unset fields with the teacher's own zero-config
// defaults (LLMProviderConfig.SetDefaults).
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 2000
	}
}

// Validate checks the invariants spec.md §6 names: temperature in [0,2],
// max_tokens >= 1, model_name and base_url present. An api_key is required
// unless a local backend is enabled.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return &Error{Field: "model_name", Message: "is required"}
	}
	if c.BaseURL == "" {
		return &Error{Field: "base_url", Message: "is required"}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return &Error{Field: "temperature", Message: "must be between 0 and 2"}
	}
	if c.MaxTokens < 1 {
		return &Error{Field: "max_tokens", Message: "must be at least 1"}
	}
	if c.APIKey == "" && (c.Local == nil || !c.Local.Enabled) {
		return &Error{Field: "api_key", Message: "is required unless local.enabled is set"}
	}
	return nil
}

// Load reads and parses a TOML config file at path, expanding
// ${VAR}/${VAR:-default}/$VAR references against the process environment
// before parsing, applying defaults, and validating the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Field: path, Message: "failed to read config file", Err: err}
	}

	expanded := expandEnv(string(raw))

	var cfg Config
	if err := toml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, &Error{Field: path, Message: "failed to parse TOML", Err: err}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}
