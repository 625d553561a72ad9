package config

// CompletionConfig configures the Completion Service client.
type CompletionConfig struct {
	// Provider selects the backend: genai or mock (default: genai)
	Provider string `yaml:"provider" json:"provider"`

	// APIKey authenticates against the provider. Usually injected via
	// DECKFORGE_API_KEY / GEMINI_API_KEY rather than written to disk.
	APIKey string `yaml:"api_key" json:"api_key"`

	// Model names the completion model (default: gemini-2.5-flash)
	Model string `yaml:"model" json:"model"`

	// TimeoutSeconds bounds a single completion call (default: 120)
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`

	// RepairAttempts caps JSON-repair parse attempts on malformed
	// model output before falling back to defaults (default: 3)
	RepairAttempts int `yaml:"repair_attempts" json:"repair_attempts"`

	// Temperature for content drafting (default: 0.7)
	Temperature float64 `yaml:"temperature" json:"temperature"`
}

// DefaultCompletionConfig returns sensible defaults.
func DefaultCompletionConfig() CompletionConfig {
	return CompletionConfig{
		Provider:       "genai",
		Model:          "gemini-2.5-flash",
		TimeoutSeconds: 120,
		RepairAttempts: 3,
		Temperature:    0.7,
	}
}
