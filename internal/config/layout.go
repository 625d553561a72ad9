package config

// LayoutConfig configures the grid layout engine.
type LayoutConfig struct {
	// Columns of the layout grid (default: 12)
	Columns int `yaml:"columns" json:"columns"`

	// Rows of the fixed row frame (default: 12)
	Rows int `yaml:"rows" json:"rows"`

	// Margin is the outer slide margin in pixels (default: 48)
	Margin float64 `yaml:"margin" json:"margin"`

	// Gutter is the spacing between grid tracks in pixels (default: 16)
	Gutter float64 `yaml:"gutter" json:"gutter"`

	// GridUnit is the cosmetic snap unit in pixels (default: 8)
	GridUnit float64 `yaml:"grid_unit" json:"grid_unit"`
}

// DefaultLayoutConfig returns sensible defaults.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Columns:  12,
		Rows:     12,
		Margin:   48,
		Gutter:   16,
		GridUnit: 8,
	}
}
