package config

// ExportConfig configures the export writers and the version store.
type ExportConfig struct {
	// OutDir receives exported artifacts (default: ./out)
	OutDir string `yaml:"out_dir" json:"out_dir"`

	// Formats lists the writers to run; the first is the primary
	// artifact, the rest are best-effort (default: [html, json])
	Formats []string `yaml:"formats" json:"formats"`

	// VersionDBPath is the SQLite file backing the version store
	// (default: ./out/versions.db)
	VersionDBPath string `yaml:"version_db_path" json:"version_db_path"`
}

// DefaultExportConfig returns sensible defaults.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		OutDir:        "out",
		Formats:       []string{"html", "json"},
		VersionDBPath: "out/versions.db",
	}
}
