package orchestrator

import (
	"sync"
	"time"

	"deckforge/internal/ir"
)

// EventType enumerates the progress events a generation job emits.
type EventType string

const (
	EventSlideStage     EventType = "slide.stage"
	EventSlideIssues    EventType = "slide.issues"
	EventSlideFinalized EventType = "slide.finalized"
	EventJobError       EventType = "job.error"
	EventJobStopped     EventType = "job.stopped"
	EventJobSummary     EventType = "job.summary"
)

// Event is one progress notification. Events from different slides of
// the same deck may interleave; consumers key on (DeckID, SlideID).
type Event struct {
	Type    EventType  `json:"type"`
	DeckID  string     `json:"deck_id"`
	SlideID string     `json:"slide_id,omitempty"`
	Stage   ir.Stage   `json:"stage,omitempty"`
	Issues  []ir.Issue `json:"issues,omitempty"`
	Score   *float64   `json:"score,omitempty"`
	Error   string     `json:"error,omitempty"`
	Summary *Summary   `json:"summary,omitempty"`
	Time    time.Time  `json:"time"`
}

// emitter serializes event delivery onto one buffered channel. Sends
// never block a pipeline: when the consumer falls behind the buffer,
// events are dropped rather than stalling generation.
type emitter struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

func newEmitter(buffer int) *emitter {
	if buffer < 1 {
		buffer = 1
	}
	return &emitter{ch: make(chan Event, buffer)}
}

func (e *emitter) emit(ev Event) {
	ev.Time = time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.ch <- ev:
	default:
	}
}

func (e *emitter) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}
