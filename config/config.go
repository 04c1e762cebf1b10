package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the visualizer pipeline.
type Config struct {
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Completion CompletionConfig `yaml:"completion"`
	Labels     LabelsConfig     `yaml:"labels"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Reduction  ReductionConfig  `yaml:"reduction"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// EmbeddingConfig holds embedding service configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "mock"
	Model     string `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL   string `yaml:"base_url"`
}

// CompletionConfig holds completion service configuration.
type CompletionConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

// LabelsConfig holds axis-label generation configuration.
type LabelsConfig struct {
	Iterations       int `yaml:"iterations"`         // concurrent completion calls per run
	OutputsPerPrompt int `yaml:"outputs_per_prompt"` // words requested per call
	AdditionalPerEnd int `yaml:"additional_per_end"` // runner-up labels kept per axis end
	DebounceMs       int `yaml:"debounce_ms"`        // auto-refresh delay after word changes
}

// FetchConfig holds embedding retrieval configuration.
type FetchConfig struct {
	BatchSize          int `yaml:"batch_size"`
	ItemTimeoutSeconds int `yaml:"item_timeout_seconds"`
}

// ReductionConfig holds dimension reduction configuration.
type ReductionConfig struct {
	Strategy     string  `yaml:"strategy"`
	DisplayRange float64 `yaml:"display_range"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			BaseURL:   "https://api.openai.com/v1",
		},
		Completion: CompletionConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
			BaseURL:   "https://api.openai.com/v1",
		},
		Labels: LabelsConfig{
			Iterations:       3,
			OutputsPerPrompt: 5,
			AdditionalPerEnd: 2,
			DebounceMs:       500,
		},
		Fetch: FetchConfig{
			BatchSize:          10,
			ItemTimeoutSeconds: 5,
		},
		Reduction: ReductionConfig{
			Strategy:     "variance-ranked axes",
			DisplayRange: 2.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ItemTimeout returns the per-item fetch timeout as a duration.
func (c *Config) ItemTimeout() time.Duration {
	return time.Duration(c.Fetch.ItemTimeoutSeconds) * time.Second
}

// Debounce returns the auto-refresh debounce delay as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Labels.DebounceMs) * time.Millisecond
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for viz.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try viz.yaml in the directory
	path := filepath.Join(dir, "viz.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .viz/config.yaml
	path = filepath.Join(dir, ".viz", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDBPath returns the path to the data database.
func DataDBPath(dir string) string {
	return filepath.Join(dir, ".viz", "data.db")
}

// EnsureVizDir ensures the .viz directory exists.
func EnsureVizDir(dir string) error {
	vizDir := filepath.Join(dir, ".viz")
	return os.MkdirAll(vizDir, 0755)
}
