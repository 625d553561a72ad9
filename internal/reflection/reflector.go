package reflection

import (
	"fmt"
	"strings"

	"deckforge/internal/config"
	"deckforge/internal/ir"
	"deckforge/internal/logging"
)

// FixType names a repair action.
type FixType string

const (
	// FixRegenerate re-invokes the completion service with issue
	// context folded into the prompt. It is the only action that costs
	// an LLM call.
	FixRegenerate FixType = "regenerate"

	// Local, LLM-free auto-fixes.
	FixShortenText  FixType = "shorten_text"
	FixShrinkToFit  FixType = "shrink_to_fit"
	FixIncreaseFont FixType = "increase_font"

	// Declared placeholders. Both are deliberate no-ops; applying them
	// leaves the slide untouched and the pipeline progressing.
	FixSplitSlide     FixType = "split_slide"
	FixSimplifyLayout FixType = "simplify_layout"
)

// Action is one repair step. SlotID is empty for slide-wide actions.
type Action struct {
	Type   FixType `json:"type"`
	SlotID string  `json:"slot_id,omitempty"`
}

// Plan is the reflector's verdict for one reflection pass.
type Plan struct {
	Actions   []Action `json:"actions"`
	Reasoning string   `json:"reasoning"`
}

// NeedsRegeneration reports whether any action in the plan requires a
// completion call.
func (p Plan) NeedsRegeneration() bool {
	for _, a := range p.Actions {
		if a.Type == FixRegenerate {
			return true
		}
	}
	return false
}

// Reflector classifies verification issues into repair plans and
// applies the local auto-fixes.
type Reflector struct {
	cfg     config.ReflectionConfig
	minFont float64
}

// NewReflector creates a reflector. The verification config supplies
// the font floor the fixes must respect.
func NewReflector(cfg config.ReflectionConfig, vcfg config.VerificationConfig) *Reflector {
	return &Reflector{cfg: cfg, minFont: vcfg.MinFontSize}
}

// Reflect classifies the dominant issue and produces a repair plan.
// Overflow or overlap errors dominate: the offending slot gets a
// targeted regeneration, softened first by the local shorten and
// shrink fixes so the rewrite starts from less material. A slide whose
// only findings are small fonts is repaired entirely locally. A slide
// with no errors but a low score gets a generic regeneration.
func (r *Reflector) Reflect(slide *ir.Slide, issues []ir.Issue) Plan {
	overflowSlots := slotsWithIssue(issues, ir.IssueOverflow, ir.IssueDOMOverflow)
	overlapSlots := slotsWithIssue(issues, ir.IssueOverlap)

	switch {
	case len(overflowSlots) > 0 || len(overlapSlots) > 0:
		var plan Plan
		seen := map[string]bool{}
		for _, id := range append(overflowSlots, overlapSlots...) {
			if seen[id] {
				continue
			}
			seen[id] = true
			plan.Actions = append(plan.Actions,
				Action{Type: FixShortenText, SlotID: id},
				Action{Type: FixShrinkToFit, SlotID: id},
				Action{Type: FixRegenerate, SlotID: id},
			)
		}
		plan.Reasoning = fmt.Sprintf(
			"content exceeds or collides with its box in %d slot(s); shorten, shrink and regenerate",
			len(seen))
		logging.Reflect("slide %s: %s", slide.ID, plan.Reasoning)
		return plan

	case onlyFontIssues(issues):
		plan := Plan{
			Actions:   []Action{{Type: FixIncreaseFont}},
			Reasoning: "only undersized fonts found; raising them locally, no rewrite needed",
		}
		logging.Reflect("slide %s: %s", slide.ID, plan.Reasoning)
		return plan

	default:
		plan := Plan{
			Actions:   []Action{{Type: FixRegenerate}},
			Reasoning: "no structural errors but the quality score is below threshold; regenerating for overall improvement",
		}
		logging.Reflect("slide %s: %s", slide.ID, plan.Reasoning)
		return plan
	}
}

// IssueGuidance renders the issue list as prompt context for a
// regeneration call.
func IssueGuidance(issues []ir.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("The previous version had these problems; fix them:\n")
	for _, is := range issues {
		b.WriteString("- ")
		b.WriteString(string(is.Type))
		if is.SlotID != "" {
			b.WriteString(" in slot " + is.SlotID)
		}
		if is.Message != "" {
			b.WriteString(": " + is.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func slotsWithIssue(issues []ir.Issue, types ...ir.IssueType) []string {
	var ids []string
	seen := map[string]bool{}
	for _, is := range issues {
		if is.Severity != ir.SeverityError {
			continue
		}
		for _, t := range types {
			if is.Type == t && is.SlotID != "" && !seen[is.SlotID] {
				seen[is.SlotID] = true
				ids = append(ids, is.SlotID)
			}
		}
	}
	return ids
}

func onlyFontIssues(issues []ir.Issue) bool {
	found := false
	for _, is := range issues {
		if is.Type == ir.IssueFontTooSmall {
			found = true
			continue
		}
		if is.Severity == ir.SeverityError {
			return false
		}
	}
	return found
}
