package config

// VerificationConfig configures the heuristic verifier and the quality
// scoring function. The text heuristics are tuned for CJK-heavy decks
// where the average glyph is close to a full em wide.
type VerificationConfig struct {
	// MinFontSize is the minimum acceptable font size in px (default: 14)
	MinFontSize float64 `yaml:"min_font_size" json:"min_font_size"`

	// AvgCharWidth is the assumed average glyph width in px (default: 16)
	AvgCharWidth float64 `yaml:"avg_char_width" json:"avg_char_width"`

	// LineHeight is the assumed line box height in px (default: 28)
	LineHeight float64 `yaml:"line_height" json:"line_height"`

	// BulletSpacing is extra per-item spacing for bulleted content in
	// px (default: 8)
	BulletSpacing float64 `yaml:"bullet_spacing" json:"bullet_spacing"`

	// SafeMarginPct is the safe margin as a fraction of slide
	// width/height that slots must not intrude into (default: 0.03).
	// SafeMarginByType overrides it per slide type.
	SafeMarginPct    float64            `yaml:"safe_margin_pct" json:"safe_margin_pct"`
	SafeMarginByType map[string]float64 `yaml:"safe_margin_by_type,omitempty" json:"safe_margin_by_type,omitempty"`

	// LargeTextThreshold is the total character count above which a
	// slide is penalized as overloaded (default: 800)
	LargeTextThreshold int `yaml:"large_text_threshold" json:"large_text_threshold"`

	// NativeRatioTarget is the native-text slot ratio that earns the
	// scoring bonus (default: 0.7)
	NativeRatioTarget float64 `yaml:"native_ratio_target" json:"native_ratio_target"`

	// Scoring weights. Score starts at 100 and is clamped to [0,100].
	OverflowPenalty  float64 `yaml:"overflow_penalty" json:"overflow_penalty"`     // per overflow (default: 15)
	OverlapPenalty   float64 `yaml:"overlap_penalty" json:"overlap_penalty"`       // per overlap (default: 20)
	MarginPenalty    float64 `yaml:"margin_penalty" json:"margin_penalty"`         // per margin violation (default: 3)
	SmallFontPenalty float64 `yaml:"small_font_penalty" json:"small_font_penalty"` // flat (default: 8)
	VolumePenalty    float64 `yaml:"volume_penalty" json:"volume_penalty"`         // flat (default: 5)
	NativeBonus      float64 `yaml:"native_bonus" json:"native_bonus"`             // flat (default: 3)

	// DOMTimeoutMs bounds one DOM verification pass; on timeout the
	// heuristic result stands alone (default: 5000)
	DOMTimeoutMs int `yaml:"dom_timeout_ms" json:"dom_timeout_ms"`
}

// DefaultVerificationConfig returns sensible defaults.
func DefaultVerificationConfig() VerificationConfig {
	return VerificationConfig{
		MinFontSize:        14,
		AvgCharWidth:       16,
		LineHeight:         28,
		BulletSpacing:      8,
		SafeMarginPct:      0.03,
		LargeTextThreshold: 800,
		NativeRatioTarget:  0.7,
		OverflowPenalty:    15,
		OverlapPenalty:     20,
		MarginPenalty:      3,
		SmallFontPenalty:   8,
		VolumePenalty:      5,
		NativeBonus:        3,
		DOMTimeoutMs:       5000,
	}
}
