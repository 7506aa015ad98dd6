package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Model holds the per-model engine construction parameters.
type Model struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	// Base URL of the OpenAI-compatible backend serving this model.
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url"`
	APIKey  string `json:"api_key" yaml:"api_key" toml:"api_key"`
	// Tensor parallelism degree to record in the engine metadata.
	TensorParallelSize int `json:"tensor_parallel_size" yaml:"tensor_parallel_size" toml:"tensor_parallel_size"`
	// Per-request timeout in seconds for non-streaming generations
	// (0 = no deadline beyond the backend's own).
	RequestTimeoutSec int `json:"request_timeout_sec" yaml:"request_timeout_sec" toml:"request_timeout_sec"`
}

// Translator configures the translation wrapper.
type Translator struct {
	Language string `json:"language" yaml:"language" toml:"language"`
}

// Summarizer configures the summarization wrapper.
type Summarizer struct {
	MinLength int `json:"min_length" yaml:"min_length" toml:"min_length"`
	MaxLength int `json:"max_length" yaml:"max_length" toml:"max_length"`
}

// HTTP tunes the request handling surface.
type HTTP struct {
	// Maximum accepted JSON request body in bytes (0 = default 1 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORS         CORS  `json:"cors" yaml:"cors" toml:"cors"`
}

// CORS configures cross-origin request handling. Disabled unless enabled
// explicitly.
type CORS struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string     `json:"addr" yaml:"addr" toml:"addr"`
	DefaultModel string     `json:"default_model" yaml:"default_model" toml:"default_model"`
	ResponseRole string     `json:"response_role" yaml:"response_role" toml:"response_role"`
	Models       []Model    `json:"models" yaml:"models" toml:"models"`
	Translator   Translator `json:"translator" yaml:"translator" toml:"translator"`
	Summarizer   Summarizer `json:"summarizer" yaml:"summarizer" toml:"summarizer"`
	HTTP         HTTP       `json:"http" yaml:"http" toml:"http"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Validate rejects configurations the gateway must not start with: no
// models, a default that is not configured, or duplicate model names.
func (c Config) Validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("no models configured")
	}
	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("model with empty name")
		}
		if strings.TrimSpace(m.BaseURL) == "" {
			return fmt.Errorf("model %q: empty base_url", m.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate model name %q", m.Name)
		}
		seen[m.Name] = true
	}
	if strings.TrimSpace(c.DefaultModel) == "" {
		return fmt.Errorf("no default model configured")
	}
	if !seen[c.DefaultModel] {
		return fmt.Errorf("default model %q is not configured", c.DefaultModel)
	}
	return nil
}

// ModelNames returns the configured names in order.
func (c Config) ModelNames() []string {
	out := make([]string, 0, len(c.Models))
	for _, m := range c.Models {
		out = append(out, m.Name)
	}
	return out
}

// ModelByName returns the configuration for name.
func (c Config) ModelByName(name string) (Model, bool) {
	for _, m := range c.Models {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}
