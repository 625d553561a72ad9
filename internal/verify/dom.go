package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"deckforge/internal/ir"
	"deckforge/internal/logging"
	"deckforge/internal/render"
)

// DOMVerifier is the optional capability that supplements the
// heuristic checks with exact rendered measurements. Its absence never
// blocks verification: callers probe Available first and merge results
// additively.
type DOMVerifier interface {
	Available() bool
	Verify(ctx context.Context, slide *ir.Slide, slideWidth, slideHeight float64) ([]ir.Issue, error)
	Close() error
}

// RodVerifier measures real overflow in a headless browser. The
// browser is launched lazily on first use and shared across slides.
type RodVerifier struct {
	mu      sync.Mutex
	browser *rod.Browser
	failed  bool
}

// NewRodVerifier creates an unconnected verifier; no browser process
// starts until the first Verify call.
func NewRodVerifier() *RodVerifier {
	return &RodVerifier{}
}

// Available reports whether a usable browser binary exists on this
// host (or a previous launch attempt already failed).
func (r *RodVerifier) Available() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed {
		return false
	}
	if r.browser != nil {
		return true
	}
	_, has := launcher.LookPath()
	return has
}

func (r *RodVerifier) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return r.browser, nil
	}
	if r.failed {
		return nil, fmt.Errorf("browser launch previously failed")
	}
	url, err := launcher.New().Headless(true).Launch()
	if err != nil {
		r.failed = true
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		r.failed = true
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	logging.Browser("headless browser connected for DOM verification")
	r.browser = b
	return b, nil
}

// domMeasurement mirrors the JSON the measurement script returns.
type domMeasurement struct {
	SlotID       string  `json:"slotId"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

const measureScript = `() => {
	const out = [];
	document.querySelectorAll('.slot').forEach(el => {
		out.push({
			slotId: el.dataset.slotId,
			scrollHeight: el.scrollHeight,
			clientHeight: el.clientHeight,
		});
	});
	return JSON.stringify(out);
}`

// Verify renders the slide in the headless browser and reports slots
// whose rendered content exceeds their box.
func (r *RodVerifier) Verify(ctx context.Context, slide *ir.Slide, slideWidth, slideHeight float64) ([]ir.Issue, error) {
	browser, err := r.connect()
	if err != nil {
		return nil, err
	}

	html, err := render.SlideHTML(slide, "", slideWidth, slideHeight)
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	if err := page.SetDocumentContent("<!DOCTYPE html><html><body style=\"margin:0\">" + html + "</body></html>"); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	obj, err := page.Eval(measureScript)
	if err != nil {
		return nil, fmt.Errorf("measure: %w", err)
	}

	var measurements []domMeasurement
	if err := json.Unmarshal([]byte(obj.Value.Str()), &measurements); err != nil {
		return nil, fmt.Errorf("decode measurements: %w", err)
	}

	var issues []ir.Issue
	for _, m := range measurements {
		if m.ScrollHeight > m.ClientHeight {
			issues = append(issues, ir.Issue{
				Severity: ir.SeverityError,
				Type:     ir.IssueDOMOverflow,
				SlotID:   m.SlotID,
				Message: fmt.Sprintf("rendered content %.0fpx exceeds box %.0fpx",
					m.ScrollHeight, m.ClientHeight),
			})
		}
	}
	logging.Browser("DOM pass slide %s: %d overflow(s)", slide.ID, len(issues))
	return issues, nil
}

// Close shuts the shared browser down.
func (r *RodVerifier) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}
