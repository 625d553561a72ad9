package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"deckforge/internal/ir"
	"deckforge/internal/logging"
	"deckforge/internal/reflection"
	"deckforge/internal/render"
	"deckforge/internal/verify"
)

// pipeline drives one slide through the stage machine. It owns its
// slide exclusively; nothing here needs locking except the shared
// semaphores and the job stop flag.
type pipeline struct {
	job   *job
	o     *Orchestrator
	plan  ir.SlidePlan
	slide *ir.Slide
}

// setStage advances the machine and emits the transition. Terminal
// stages latch: a settled slide never transitions again.
func (p *pipeline) setStage(stage ir.Stage) {
	if p.slide.Stage.Terminal() {
		return
	}
	p.slide.Stage = stage
	logging.Pipeline("deck %s slide %s -> %s", p.job.deckID, p.slide.ID, stage)
	p.job.events.emit(Event{
		Type: EventSlideStage, DeckID: p.job.deckID, SlideID: p.slide.ID, Stage: stage,
	})
}

// checkStop is called at every stage-transition boundary. Once the
// deck stop flag is observed the slide settles to STOPPED and no new
// suspension point is entered.
func (p *pipeline) checkStop() bool {
	if !p.job.stopped.Load() {
		return false
	}
	p.setStage(ir.StageStopped)
	return true
}

func (p *pipeline) fail(err error) {
	p.setStage(ir.StageError)
	p.job.events.emit(Event{
		Type: EventJobError, DeckID: p.job.deckID, SlideID: p.slide.ID, Error: err.Error(),
	})
	logging.Pipeline("deck %s slide %s failed: %v", p.job.deckID, p.slide.ID, err)
}

// run executes the stage machine to a terminal state.
func (p *pipeline) run(ctx context.Context) {
	if p.checkStop() {
		return
	}
	p.setStage(ir.StageDrafting)

	slide, err := p.o.writer.Draft(ctx, p.job.brief, p.plan)
	if err != nil {
		p.fail(err)
		return
	}
	// Draft returns a fresh slide; carry over the stage we already set.
	slide.Stage = p.slide.Stage
	p.job.replaceSlide(p.slide, slide)
	p.slide = slide

	if p.checkStop() {
		return
	}
	p.setStage(ir.StageWriting)
	if err := p.o.writer.Polish(ctx, p.slide); err != nil {
		p.fail(err)
		return
	}

	if p.checkStop() {
		return
	}
	if err := p.generateImages(ctx); err != nil {
		p.fail(err)
		return
	}

	for {
		if p.checkStop() {
			return
		}
		p.setStage(ir.StageLayouting)
		tmpl := p.o.registry.SelectTemplate(p.slide.Type, p.job.templateID)
		p.o.layout.LayoutSlide(p.slide, tmpl, p.o.width, p.o.height)

		if p.checkStop() {
			return
		}
		p.setStage(ir.StageVerifying)
		issues := p.o.verifier.Verify(p.slide, p.o.width, p.o.height)
		issues = append(issues, p.domIssues(ctx)...)

		metrics := p.o.verifier.ComputeMetrics(p.slide, issues)
		score := verify.Score(metrics, p.o.vcfg)
		p.slide.Issues = issues
		p.slide.Metrics = &metrics
		p.slide.Score = &score
		if len(issues) > 0 {
			p.job.events.emit(Event{
				Type: EventSlideIssues, DeckID: p.job.deckID, SlideID: p.slide.ID,
				Issues: issues, Score: &score,
			})
		}

		if !ir.HasErrors(issues) && score >= p.o.policy.ScoreThreshold() {
			break
		}
		if !p.o.policy.ShouldReflect(issues, score, p.slide.Reflections) {
			// Budget exhausted. Best effort: the slide ships with its
			// remaining findings instead of being dropped.
			p.finalize(ir.StageFinalWithWarnings)
			return
		}

		if p.checkStop() {
			return
		}
		p.setStage(ir.StageReflecting)
		p.slide.Reflections++
		if err := p.reflect(ctx, issues); err != nil {
			// Transient upstream failure. The pass consumed budget and
			// any local fixes already landed; the next verification
			// decides, and budget exhaustion settles the slide with
			// warnings instead of dropping it.
			logging.Pipeline("deck %s slide %s regeneration failed: %v", p.job.deckID, p.slide.ID, err)
		}
	}

	p.finalize(ir.StageFinal)
}

// reflect applies one repair plan: local fixes immediately, then any
// regeneration through the writer with issue context.
func (p *pipeline) reflect(ctx context.Context, issues []ir.Issue) error {
	plan := p.o.reflector.Reflect(p.slide, issues)
	guidance := reflection.IssueGuidance(issues)
	for _, a := range plan.Actions {
		switch a.Type {
		case reflection.FixRegenerate:
			if p.job.stopped.Load() {
				return nil
			}
			if err := p.o.writer.Regenerate(ctx, p.slide, a.SlotID, guidance); err != nil {
				return err
			}
		default:
			p.o.reflector.AutoFix(p.slide, a.Type, a.SlotID)
		}
	}
	return nil
}

// domIssues runs the optional DOM pass. Absence and failure are both
// soft: the heuristic result stands alone.
func (p *pipeline) domIssues(ctx context.Context) []ir.Issue {
	dom := p.o.dom
	if dom == nil || !dom.Available() {
		return nil
	}
	if p.job.stopped.Load() {
		return nil
	}
	dctx, cancel := context.WithTimeout(ctx, time.Duration(p.o.vcfg.DOMTimeoutMs)*time.Millisecond)
	defer cancel()
	issues, err := dom.Verify(dctx, p.slide, p.o.width, p.o.height)
	if err != nil {
		logging.Verify("deck %s slide %s DOM pass skipped: %v", p.job.deckID, p.slide.ID, err)
		return nil
	}
	return issues
}

// generateImages resolves image slots that still lack an asset, one
// sub-task per slot under the image semaphore.
func (p *pipeline) generateImages(ctx context.Context) error {
	for _, id := range sortedSlotIDs(p.slide) {
		slot := p.slide.Slots[id]
		img, ok := slot.Content.(*ir.ImageContent)
		if !ok || img.AssetRef != "" {
			continue
		}
		if p.job.stopped.Load() {
			return nil
		}
		if err := p.o.imageSem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("acquire image slot: %w", err)
		}
		ref := p.o.images.Generate(ctx, p.slide.ID, slot.ID, img.Prompt)
		p.o.imageSem.Release(1)
		img.AssetRef = ref
	}
	return nil
}

// finalize renders the preview and settles the slide.
func (p *pipeline) finalize(stage ir.Stage) {
	if p.checkStop() {
		return
	}
	// A settled slide never carries a font below the configured
	// minimum, even when the score let a font_too_small warning pass.
	p.o.reflector.AutoFix(p.slide, reflection.FixIncreaseFont, "")

	p.setStage(ir.StagePreviewRendering)
	background := p.job.backgroundFor(p.slide.Type)
	if _, err := render.SlideHTML(p.slide, background, p.o.width, p.o.height); err != nil {
		// Preview failure downgrades but never drops the slide.
		logging.Pipeline("deck %s slide %s preview failed: %v", p.job.deckID, p.slide.ID, err)
		stage = ir.StageFinalWithWarnings
	}

	p.setStage(stage)
	p.job.events.emit(Event{
		Type: EventSlideFinalized, DeckID: p.job.deckID, SlideID: p.slide.ID,
		Stage: stage, Score: p.slide.Score, Issues: p.slide.Issues,
	})
}

func sortedSlotIDs(slide *ir.Slide) []string {
	ids := make([]string, 0, len(slide.Slots))
	for id := range slide.Slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
