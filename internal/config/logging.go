package config

// LoggingConfig controls categorized file logging.
type LoggingConfig struct {
	// DebugMode enables file logging entirely; when false no log files
	// are written (default: false)
	DebugMode bool `yaml:"debug_mode" json:"debug_mode"`

	// Dir is the log directory (default: .deckforge/logs)
	Dir string `yaml:"dir" json:"dir"`

	// Level is the minimum level written: debug/info/warn/error
	// (default: info)
	Level string `yaml:"level" json:"level"`

	// Categories toggles individual categories; absent means enabled.
	Categories map[string]bool `yaml:"categories" json:"categories"`
}

// DefaultLoggingConfig returns sensible defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		DebugMode: false,
		Dir:       ".deckforge/logs",
		Level:     "info",
	}
}
