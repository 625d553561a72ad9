// Package verify implements the heuristic quality checks that close
// the generation loop: geometry and size violations become typed
// issues, issues become metrics, metrics become a deterministic score.
// Issues are data consumed by the reflection policy, never errors.
package verify

import (
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"deckforge/internal/config"
	"deckforge/internal/ir"
	"deckforge/internal/logging"
)

// Verifier runs the heuristic checks against a laid-out slide.
type Verifier struct {
	cfg config.VerificationConfig
}

// NewVerifier creates a verifier.
func NewVerifier(cfg config.VerificationConfig) *Verifier {
	return &Verifier{cfg: cfg}
}

// Verify checks every laid-out slot of the slide and returns the
// issues found. Slots without a bbox are skipped: they have not been
// through layout yet and there is nothing geometric to judge.
func (v *Verifier) Verify(slide *ir.Slide, slideWidth, slideHeight float64) []ir.Issue {
	timer := logging.StartTimer(logging.CategoryVerify, "Verify")
	defer timer.Stop()

	var issues []ir.Issue

	ids := laidOutSlotIDs(slide)
	for _, id := range ids {
		slot := slide.Slots[id]
		issues = append(issues, v.checkOverflow(slot)...)
		issues = append(issues, v.checkFontSize(slot)...)
		issues = append(issues, v.checkMargin(slide.Type, slot, slideWidth, slideHeight)...)
	}
	issues = append(issues, v.checkOverlaps(slide, ids)...)

	logging.Verify("slide %s: %d issue(s)", slide.ID, len(issues))
	return issues
}

// EstimateRequiredHeight applies the CJK-tuned text metrics heuristic:
// characters per line from the slot width, line count from content
// length, plus per-item spacing for bullets.
func (v *Verifier) EstimateRequiredHeight(slot *ir.Slot, width float64) float64 {
	charsPerLine := int(math.Floor(width / v.cfg.AvgCharWidth))
	if charsPerLine < 1 {
		charsPerLine = 1
	}

	lineCount := func(text string) float64 {
		n := utf8.RuneCountInString(text)
		if n == 0 {
			return 0
		}
		return math.Ceil(float64(n) / float64(charsPerLine))
	}

	switch c := slot.Content.(type) {
	case *ir.TextContent:
		return lineCount(c.Text) * v.cfg.LineHeight
	case *ir.BulletContent:
		var lines float64
		for _, item := range c.Items {
			l := lineCount(item)
			if l == 0 {
				l = 1
			}
			lines += l
		}
		return lines*v.cfg.LineHeight + float64(len(c.Items))*v.cfg.BulletSpacing
	case *ir.TableContent:
		rows := float64(len(c.Rows) + 1) // header row
		return rows * v.cfg.LineHeight
	default:
		// Images and charts scale to their box.
		return 0
	}
}

func (v *Verifier) checkOverflow(slot *ir.Slot) []ir.Issue {
	required := v.EstimateRequiredHeight(slot, slot.BBox.Width)
	if required <= slot.BBox.Height {
		return nil
	}
	return []ir.Issue{{
		Severity: ir.SeverityError,
		Type:     ir.IssueOverflow,
		SlotID:   slot.ID,
		Message: fmt.Sprintf("content needs ~%.0fpx but slot is %.0fpx tall",
			required, slot.BBox.Height),
	}}
}

func (v *Verifier) checkFontSize(slot *ir.Slot) []ir.Issue {
	if slot.Style == nil || slot.Style.FontSize == 0 {
		return nil
	}
	if slot.Style.FontSize >= v.cfg.MinFontSize {
		return nil
	}
	return []ir.Issue{{
		Severity: ir.SeverityWarning,
		Type:     ir.IssueFontTooSmall,
		SlotID:   slot.ID,
		Message: fmt.Sprintf("font size %.1fpx below minimum %.1fpx",
			slot.Style.FontSize, v.cfg.MinFontSize),
	}}
}

func (v *Verifier) safeMarginPct(st ir.SlideType) float64 {
	if pct, ok := v.cfg.SafeMarginByType[string(st)]; ok {
		return pct
	}
	return v.cfg.SafeMarginPct
}

func (v *Verifier) checkMargin(st ir.SlideType, slot *ir.Slot, slideWidth, slideHeight float64) []ir.Issue {
	pct := v.safeMarginPct(st)
	if pct <= 0 {
		return nil
	}
	marginX := slideWidth * pct
	marginY := slideHeight * pct
	b := slot.BBox

	var sides []string
	if b.X < marginX {
		sides = append(sides, "left")
	}
	if b.Right() > slideWidth-marginX {
		sides = append(sides, "right")
	}
	if b.Y < marginY {
		sides = append(sides, "top")
	}
	if b.Bottom() > slideHeight-marginY {
		sides = append(sides, "bottom")
	}
	if len(sides) == 0 {
		return nil
	}
	return []ir.Issue{{
		Severity: ir.SeverityWarning,
		Type:     ir.IssueMarginViolation,
		SlotID:   slot.ID,
		Message:  fmt.Sprintf("slot intrudes into safe margin: %v", sides),
	}}
}

// checkOverlaps reports exactly one issue per intersecting pair.
func (v *Verifier) checkOverlaps(slide *ir.Slide, ids []string) []ir.Issue {
	var issues []ir.Issue
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a := slide.Slots[ids[i]]
			b := slide.Slots[ids[j]]
			if a.BBox.Intersects(*b.BBox) {
				issues = append(issues, ir.Issue{
					Severity: ir.SeverityError,
					Type:     ir.IssueOverlap,
					SlotID:   a.ID,
					Message:  fmt.Sprintf("slots %s and %s overlap", a.ID, b.ID),
				})
			}
		}
	}
	return issues
}

func laidOutSlotIDs(slide *ir.Slide) []string {
	ids := make([]string, 0, len(slide.Slots))
	for id, slot := range slide.Slots {
		if slot.BBox != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
