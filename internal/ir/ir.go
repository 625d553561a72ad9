// Package ir defines the intermediate representation shared by every
// stage of deck generation: decks, slides, slots, bounding boxes,
// quality issues and the slide stage machine. The IR is plain data;
// all behavior (layout, verification, repair) lives in the packages
// that consume it.
package ir

import "time"

// SlideType enumerates the supported slide archetypes.
type SlideType string

const (
	SlideTitle     SlideType = "title"
	SlideAgenda    SlideType = "agenda"
	SlideTwoColumn SlideType = "two_column"
	SlideBullet    SlideType = "bullet"
	SlideImage     SlideType = "image"
	SlideChart     SlideType = "chart"
	SlideTable     SlideType = "table"
	SlideSection   SlideType = "section"
)

// KnownSlideTypes lists every valid SlideType, in catalog order.
var KnownSlideTypes = []SlideType{
	SlideTitle, SlideAgenda, SlideTwoColumn, SlideBullet,
	SlideImage, SlideChart, SlideTable, SlideSection,
}

// ValidSlideType reports whether t is one of the known slide types.
func ValidSlideType(t SlideType) bool {
	for _, k := range KnownSlideTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Stage is the slide pipeline state machine value.
type Stage string

const (
	StagePlanned           Stage = "planned"
	StageDrafting          Stage = "drafting"
	StageWriting           Stage = "writing"
	StageLayouting         Stage = "layouting"
	StageVerifying         Stage = "verifying"
	StageReflecting        Stage = "reflecting"
	StagePreviewRendering  Stage = "preview_rendering"
	StageFinal             Stage = "final"
	StageFinalWithWarnings Stage = "final_with_warnings"
	StageError             Stage = "error"
	StageStopped           Stage = "stopped"
)

// Terminal reports whether the stage is a terminal state. Once a slide
// reaches a terminal stage it never transitions again.
func (s Stage) Terminal() bool {
	switch s {
	case StageFinal, StageFinalWithWarnings, StageError, StageStopped:
		return true
	}
	return false
}

// Finalized reports whether the stage contributes a slide to the
// assembled deck.
func (s Stage) Finalized() bool {
	return s == StageFinal || s == StageFinalWithWarnings
}

// IssueSeverity classifies how bad a quality issue is.
type IssueSeverity string

const (
	SeverityWarning IssueSeverity = "warning"
	SeverityError   IssueSeverity = "error"
)

// IssueType enumerates the quality issues the verifier can emit.
type IssueType string

const (
	IssueOverflow        IssueType = "overflow"
	IssueOverlap         IssueType = "overlap"
	IssueFontTooSmall    IssueType = "font_too_small"
	IssueMarginViolation IssueType = "margin_violation"
	IssueDOMOverflow     IssueType = "dom_overflow"
)

// Issue is a typed quality finding. Issues are data, not errors: they
// feed the reflection policy and the progress event stream.
type Issue struct {
	Severity IssueSeverity `json:"severity"`
	Type     IssueType     `json:"type"`
	SlotID   string        `json:"slot_id,omitempty"`
	Message  string        `json:"message"`
}

// HasErrors reports whether any issue in the list is error severity.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// QualityMetrics is the derived measurement set one verification pass
// produces. It is recomputed on every pass and never persisted apart
// from the slide it describes.
type QualityMetrics struct {
	OverflowCount    int     `json:"overflow_count"`
	OverlapCount     int     `json:"overlap_count"`
	MarginViolations int     `json:"margin_violations"`
	MinFontSize      float64 `json:"min_font_size"`
	TextVolume       int     `json:"text_volume"`
	NativeRatio      float64 `json:"native_ratio"`
}

// SlidePlan is the planner's output for one slide: read-only input to
// a slide pipeline, never mutated after creation.
type SlidePlan struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Type  SlideType `json:"type"`
	Goal  string    `json:"goal"`
}

// Slide is the per-slide IR. During generation it is owned exclusively
// by one pipeline; after finalization ownership passes to the Deck.
type Slide struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Type        SlideType        `json:"type"`
	Slots       map[string]*Slot `json:"slots"`
	Stage       Stage            `json:"stage"`
	Score       *float64         `json:"score,omitempty"`
	Issues      []Issue          `json:"issues,omitempty"`
	Metrics     *QualityMetrics  `json:"metrics,omitempty"`
	Reflections int              `json:"reflections"`
}

// Deck is the deck-level IR: created once planning completes, mutated
// only by the orchestrator appending finalized slides, immutable once
// export is requested.
type Deck struct {
	ID       string               `json:"id"`
	Title    string               `json:"title"`
	ThemeID  string               `json:"theme_id"`
	Variants map[SlideType]string `json:"variants,omitempty"`
	Slides   []*Slide             `json:"slides"`
}

// Version is an immutable labeled snapshot of a deck IR.
type Version struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deck_id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	Deck      *Deck     `json:"deck"`
}
