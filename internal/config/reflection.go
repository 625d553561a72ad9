package config

// ReflectionConfig configures the self-repair loop.
type ReflectionConfig struct {
	// MaxReflections caps repair passes per slide (default: 2)
	MaxReflections int `yaml:"max_reflections" json:"max_reflections"`

	// ScoreThreshold is the quality score a slide must reach to
	// finalize without reflection (default: 85)
	ScoreThreshold float64 `yaml:"score_threshold" json:"score_threshold"`

	// ShortenRatio is the fraction of text kept by the shorten_text
	// auto-fix (default: 0.8)
	ShortenRatio float64 `yaml:"shorten_ratio" json:"shorten_ratio"`

	// ShrinkRatio is the font-size multiplier applied by shrink_to_fit,
	// floored at verification.min_font_size (default: 0.9)
	ShrinkRatio float64 `yaml:"shrink_ratio" json:"shrink_ratio"`
}

// DefaultReflectionConfig returns sensible defaults.
func DefaultReflectionConfig() ReflectionConfig {
	return ReflectionConfig{
		MaxReflections: 2,
		ScoreThreshold: 85,
		ShortenRatio:   0.8,
		ShrinkRatio:    0.9,
	}
}
