// Package orchestrator runs deck generation: one pipeline per slide,
// bounded by a slide semaphore and an image semaphore, each pipeline
// driving its slide's stage machine to a terminal state while progress
// events stream on a per-deck channel.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"deckforge/internal/completion"
	"deckforge/internal/config"
	"deckforge/internal/ir"
	"deckforge/internal/layout"
	"deckforge/internal/logging"
	"deckforge/internal/planner"
	"deckforge/internal/reflection"
	"deckforge/internal/template"
	"deckforge/internal/verify"
	"deckforge/internal/version"
)

// ErrNoPlans is returned when a request carries no slide plans.
var ErrNoPlans = errors.New("request has no slide plans")

// Request describes one deck generation job.
type Request struct {
	DeckID     string // assigned when empty
	Title      string
	Brief      string
	Plans      []ir.SlidePlan
	TemplateID string   // preferred template, optional
	Tone       []string // theme/variant tone tags, optional
}

// Summary reports how a finished job went. Slides that errored or were
// stopped are excluded from the assembled deck but surfaced here.
type Summary struct {
	DeckID    string   `json:"deck_id"`
	Total     int      `json:"total"`
	Finalized int      `json:"finalized"`
	Warnings  int      `json:"warnings"`
	Errored   int      `json:"errored"`
	Stopped   int      `json:"stopped"`
	Omitted   []string `json:"omitted,omitempty"` // slide ids not in the deck
	VersionID string   `json:"version_id,omitempty"`
}

// ImageGenerator resolves an image slot's prompt to an asset
// reference. The real backend is external; the placeholder keeps
// decks self-contained.
type ImageGenerator interface {
	Generate(ctx context.Context, slideID, slotID, prompt string) string
}

// PlaceholderImages derives a deterministic asset path per slot.
type PlaceholderImages struct{}

// Generate implements ImageGenerator.
func (PlaceholderImages) Generate(_ context.Context, slideID, slotID, _ string) string {
	return fmt.Sprintf("assets/%s-%s.png", slideID, slotID)
}

// job is the per-deck runtime state shared by that deck's pipelines.
type job struct {
	deckID     string
	brief      string
	templateID string
	theme      *template.Theme
	variants   map[ir.SlideType]string
	events     *emitter
	stopped    atomic.Bool
	done       atomic.Bool

	mu     sync.Mutex
	slides map[string]*ir.Slide // keyed by plan id
}

func (j *job) replaceSlide(old, next *ir.Slide) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.slides[old.ID] = next
}

func (j *job) slideFor(planID string) *ir.Slide {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.slides[planID]
}

// backgroundFor resolves the deck's chosen variant CSS for a slide
// type; empty when the theme has no variant for it.
func (j *job) backgroundFor(st ir.SlideType) string {
	if j.theme == nil {
		return ""
	}
	variantID := j.variants[st]
	for _, v := range j.theme.Variants[st] {
		if v.ID == variantID {
			return v.CSS
		}
	}
	return ""
}

// Orchestrator coordinates deck generation jobs. Safe for concurrent
// use; the two semaphores are shared across all decks.
type Orchestrator struct {
	gcfg   config.GenerationConfig
	vcfg   config.VerificationConfig
	client completion.Client

	writer    *planner.Writer
	registry  *template.Registry
	layout    *layout.Engine
	verifier  *verify.Verifier
	reflector *reflection.Reflector
	policy    *reflection.Policy

	dom    verify.DOMVerifier
	store  *version.Store
	images ImageGenerator

	width, height float64
	slideSem      *semaphore.Weighted
	imageSem      *semaphore.Weighted

	mu   sync.Mutex
	jobs map[string]*job
}

// New wires an orchestrator from config. The DOM verifier and version
// store are optional capabilities, attached via the With methods.
func New(cfg config.Config, client completion.Client, registry *template.Registry) *Orchestrator {
	return &Orchestrator{
		gcfg:      cfg.Generation,
		vcfg:      cfg.Verification,
		client:    client,
		writer:    planner.NewWriter(client, cfg.Completion),
		registry:  registry,
		layout:    layout.NewEngine(cfg.Layout),
		verifier:  verify.NewVerifier(cfg.Verification),
		reflector: reflection.NewReflector(cfg.Reflection, cfg.Verification),
		policy:    reflection.NewPolicy(cfg.Reflection),
		images:    PlaceholderImages{},
		width:     cfg.Generation.SlideWidth,
		height:    cfg.Generation.SlideHeight,
		slideSem:  semaphore.NewWeighted(int64(cfg.Generation.MaxConcurrentSlides)),
		imageSem:  semaphore.NewWeighted(int64(cfg.Generation.MaxConcurrentImages)),
		jobs:      map[string]*job{},
	}
}

// WithDOMVerifier attaches the optional browser-based verifier.
func (o *Orchestrator) WithDOMVerifier(dom verify.DOMVerifier) *Orchestrator {
	o.dom = dom
	return o
}

// WithVersionStore enables the post-generation auto-snapshot.
func (o *Orchestrator) WithVersionStore(s *version.Store) *Orchestrator {
	o.store = s
	return o
}

// WithImageGenerator replaces the placeholder image backend.
func (o *Orchestrator) WithImageGenerator(g ImageGenerator) *Orchestrator {
	o.images = g
	return o
}

// Events returns the progress channel of a running job, or nil if the
// deck is unknown. The channel closes when the job finishes.
func (o *Orchestrator) Events(deckID string) <-chan Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	if j, ok := o.jobs[deckID]; ok {
		return j.events.ch
	}
	return nil
}

// Stop raises the deck's stop flag. Running pipelines settle to
// STOPPED at their next stage boundary; in-flight completion calls may
// finish but their results are discarded. Unknown decks are a no-op.
func (o *Orchestrator) Stop(deckID string) {
	o.mu.Lock()
	j, ok := o.jobs[deckID]
	o.mu.Unlock()
	if !ok {
		return
	}
	if j.stopped.CompareAndSwap(false, true) {
		logging.Pipeline("deck %s stop requested", deckID)
		j.events.emit(Event{Type: EventJobStopped, DeckID: deckID})
	}
}

// Generate runs one deck job to completion and returns the assembled
// deck plus its summary. It blocks until every slide reaches a
// terminal state; consume Events concurrently for progress.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*ir.Deck, *Summary, error) {
	if len(req.Plans) == 0 {
		return nil, nil, ErrNoPlans
	}
	deckID := req.DeckID
	if deckID == "" {
		deckID = uuid.NewString()
	}

	j := &job{
		deckID:     deckID,
		brief:      req.Brief,
		templateID: req.TemplateID,
		events:     newEmitter(o.gcfg.EventBuffer),
		slides:     map[string]*ir.Slide{},
	}
	o.mu.Lock()
	if prev, exists := o.jobs[deckID]; exists && !prev.done.Load() {
		o.mu.Unlock()
		return nil, nil, fmt.Errorf("deck %s is already generating", deckID)
	}
	o.jobs[deckID] = j
	o.mu.Unlock()
	// The finished job stays registered so a consumer can still drain
	// the buffered event channel after Generate returns.
	defer func() {
		j.done.Store(true)
		j.events.close()
	}()

	j.theme = o.registry.SelectTheme(ctx, o.client, template.ThemeRequest{
		Brief: req.Brief, Goal: req.Title, Tone: req.Tone,
	})
	j.variants = map[ir.SlideType]string{}
	for _, st := range ir.KnownSlideTypes {
		j.variants[st] = template.SelectVariant(j.theme, st, req.Tone)
	}

	for _, plan := range req.Plans {
		j.slides[plan.ID] = &ir.Slide{
			ID: plan.ID, Title: plan.Title, Type: plan.Type, Stage: ir.StagePlanned,
			Slots: map[string]*ir.Slot{},
		}
	}

	logging.Pipeline("deck %s: generating %d slides (theme %s)", deckID, len(req.Plans), j.theme.ID)

	// Pipelines are admitted in plan order; a raised stop flag ceases
	// admission entirely, settling unstarted slides to STOPPED.
	var wg sync.WaitGroup
	for _, plan := range req.Plans {
		if j.stopped.Load() || ctx.Err() != nil {
			break
		}
		if err := o.slideSem.Acquire(ctx, 1); err != nil {
			break
		}
		if j.stopped.Load() {
			o.slideSem.Release(1)
			break
		}
		wg.Add(1)
		go func(plan ir.SlidePlan) {
			defer wg.Done()
			defer o.slideSem.Release(1)
			p := &pipeline{job: j, o: o, plan: plan, slide: j.slideFor(plan.ID)}
			p.run(ctx)
		}(plan)
	}
	wg.Wait()

	// Anything still non-terminal was never admitted (stop or context).
	for _, plan := range req.Plans {
		slide := j.slideFor(plan.ID)
		if !slide.Stage.Terminal() {
			slide.Stage = ir.StageStopped
			j.events.emit(Event{
				Type: EventSlideStage, DeckID: deckID, SlideID: slide.ID, Stage: ir.StageStopped,
			})
		}
	}

	deck, summary := o.assemble(req, deckID, j)

	if o.store != nil && o.gcfg.AutoSnapshot && summary.Finalized+summary.Warnings > 0 {
		vid, err := o.store.SaveVersion(ctx, deckID, deck, "")
		if err != nil {
			logging.Version("deck %s auto-snapshot failed: %v", deckID, err)
		} else {
			summary.VersionID = vid
		}
	}

	j.events.emit(Event{Type: EventJobSummary, DeckID: deckID, Summary: summary})
	logging.Pipeline("deck %s done: %d final, %d with warnings, %d errored, %d stopped",
		deckID, summary.Finalized, summary.Warnings, summary.Errored, summary.Stopped)
	return deck, summary, nil
}

// assemble builds the deck from finalized slides in plan order.
func (o *Orchestrator) assemble(req Request, deckID string, j *job) (*ir.Deck, *Summary) {
	deck := &ir.Deck{
		ID:       deckID,
		Title:    req.Title,
		ThemeID:  j.theme.ID,
		Variants: j.variants,
	}
	summary := &Summary{DeckID: deckID, Total: len(req.Plans)}
	for _, plan := range req.Plans {
		slide := j.slideFor(plan.ID)
		switch slide.Stage {
		case ir.StageFinal:
			summary.Finalized++
			deck.Slides = append(deck.Slides, slide)
		case ir.StageFinalWithWarnings:
			summary.Warnings++
			deck.Slides = append(deck.Slides, slide)
		case ir.StageError:
			summary.Errored++
			summary.Omitted = append(summary.Omitted, slide.ID)
		default:
			summary.Stopped++
			summary.Omitted = append(summary.Omitted, slide.ID)
		}
	}
	return deck, summary
}
