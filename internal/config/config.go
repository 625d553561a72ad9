// Package config holds all deckforge configuration. Each concern gets
// its own file with a Default constructor; the root Config aggregates
// them and is loaded from YAML with environment overrides for secrets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all deckforge configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`

	// Completion Service client
	Completion CompletionConfig `yaml:"completion" json:"completion"`

	// Deck generation pipeline
	Generation GenerationConfig `yaml:"generation" json:"generation"`

	// Grid layout engine
	Layout LayoutConfig `yaml:"layout" json:"layout"`

	// Heuristic verifier and scoring
	Verification VerificationConfig `yaml:"verification" json:"verification"`

	// Reflection / auto-fix loop
	Reflection ReflectionConfig `yaml:"reflection" json:"reflection"`

	// Export writers
	Export ExportConfig `yaml:"export" json:"export"`

	// Logging
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// Default returns the full default configuration.
func Default() Config {
	return Config{
		Name:         "deckforge",
		Version:      "0.3.0",
		Completion:   DefaultCompletionConfig(),
		Generation:   DefaultGenerationConfig(),
		Layout:       DefaultLayoutConfig(),
		Verification: DefaultVerificationConfig(),
		Reflection:   DefaultReflectionConfig(),
		Export:       DefaultExportConfig(),
		Logging:      DefaultLoggingConfig(),
	}
}

// Load reads configuration from a YAML file layered over defaults.
// A missing file is not an error: defaults plus env overrides apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides pulls secrets from the environment so API keys
// never have to live in config files.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DECKFORGE_API_KEY"); v != "" {
		c.Completion.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Completion.APIKey == "" {
		c.Completion.APIKey = v
	}
	if v := os.Getenv("DECKFORGE_MODEL"); v != "" {
		c.Completion.Model = v
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Generation.MaxConcurrentSlides < 1 {
		return fmt.Errorf("generation.max_concurrent_slides must be >= 1, got %d", c.Generation.MaxConcurrentSlides)
	}
	if c.Generation.MaxConcurrentImages < 1 {
		return fmt.Errorf("generation.max_concurrent_images must be >= 1, got %d", c.Generation.MaxConcurrentImages)
	}
	if c.Layout.Columns < 1 || c.Layout.Rows < 1 {
		return fmt.Errorf("layout grid must have positive columns and rows")
	}
	if c.Reflection.ScoreThreshold < 0 || c.Reflection.ScoreThreshold > 100 {
		return fmt.Errorf("reflection.score_threshold must be in [0,100], got %g", c.Reflection.ScoreThreshold)
	}
	if c.Reflection.MaxReflections < 0 {
		return fmt.Errorf("reflection.max_reflections must be >= 0, got %d", c.Reflection.MaxReflections)
	}
	return nil
}
