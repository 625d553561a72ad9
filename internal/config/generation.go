package config

// GenerationConfig configures the deck orchestrator.
type GenerationConfig struct {
	// MaxConcurrentSlides caps slide pipelines running at once (default: 3)
	MaxConcurrentSlides int `yaml:"max_concurrent_slides" json:"max_concurrent_slides"`

	// MaxConcurrentImages caps image-generation sub-tasks (default: 2)
	MaxConcurrentImages int `yaml:"max_concurrent_images" json:"max_concurrent_images"`

	// SlideWidth/SlideHeight define the pixel canvas (default: 1280x720)
	SlideWidth  float64 `yaml:"slide_width" json:"slide_width"`
	SlideHeight float64 `yaml:"slide_height" json:"slide_height"`

	// DefaultSlideCount is used when the brief does not say how many
	// slides to plan (default: 8)
	DefaultSlideCount int `yaml:"default_slide_count" json:"default_slide_count"`

	// EventBuffer sizes the per-deck progress event channel (default: 256)
	EventBuffer int `yaml:"event_buffer" json:"event_buffer"`

	// AutoSnapshot saves a version of the assembled deck after
	// generation completes (default: true)
	AutoSnapshot bool `yaml:"auto_snapshot" json:"auto_snapshot"`
}

// DefaultGenerationConfig returns sensible defaults.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		MaxConcurrentSlides: 3,
		MaxConcurrentImages: 2,
		SlideWidth:          1280,
		SlideHeight:         720,
		DefaultSlideCount:   8,
		EventBuffer:         256,
		AutoSnapshot:        true,
	}
}
