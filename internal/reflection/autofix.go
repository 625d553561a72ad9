package reflection

import (
	"math"

	"deckforge/internal/ir"
	"deckforge/internal/logging"
)

// AutoFix applies one purely local repair to the slide. slotID targets
// a single slot; empty means every slot. Unknown fix types and the
// declared placeholders leave the slide unchanged.
func (r *Reflector) AutoFix(slide *ir.Slide, fix FixType, slotID string) {
	switch fix {
	case FixShortenText:
		r.eachSlot(slide, slotID, r.shortenText)
	case FixShrinkToFit:
		r.eachSlot(slide, slotID, r.shrinkToFit)
	case FixIncreaseFont:
		r.eachSlot(slide, slotID, r.increaseFont)
	case FixSplitSlide, FixSimplifyLayout:
		// Declared but not implemented. The no-op keeps the state
		// machine moving; verification still runs on the next pass.
		logging.Reflect("slide %s: fix %s is a no-op", slide.ID, fix)
	}
}

func (r *Reflector) eachSlot(slide *ir.Slide, slotID string, f func(*ir.Slot)) {
	if slotID != "" {
		if slot, ok := slide.Slots[slotID]; ok {
			f(slot)
		}
		return
	}
	for _, slot := range slide.Slots {
		f(slot)
	}
}

// shortenText keeps roughly the configured fraction of the content:
// runes for plain text, items for bullets. Other content kinds carry
// no prose worth truncating.
func (r *Reflector) shortenText(slot *ir.Slot) {
	switch c := slot.Content.(type) {
	case *ir.TextContent:
		runes := []rune(c.Text)
		keep := int(math.Ceil(float64(len(runes)) * r.cfg.ShortenRatio))
		if keep < len(runes) {
			c.Text = string(runes[:keep])
		}
	case *ir.BulletContent:
		keep := int(math.Ceil(float64(len(c.Items)) * r.cfg.ShortenRatio))
		if keep < 1 {
			keep = 1
		}
		if keep < len(c.Items) {
			c.Items = c.Items[:keep]
		}
	}
}

// shrinkToFit multiplies the font size by the configured ratio,
// flooring at the minimum. Repeated applications converge on the floor
// and never pass it.
func (r *Reflector) shrinkToFit(slot *ir.Slot) {
	if slot.Style == nil || slot.Style.FontSize <= 0 {
		return
	}
	next := slot.Style.FontSize * r.cfg.ShrinkRatio
	if next < r.minFont {
		next = r.minFont
	}
	slot.Style.FontSize = next
}

// increaseFont raises undersized fonts to the minimum. Slots already
// at or above it are untouched.
func (r *Reflector) increaseFont(slot *ir.Slot) {
	if slot.Style == nil || slot.Style.FontSize <= 0 {
		return
	}
	if slot.Style.FontSize < r.minFont {
		slot.Style.FontSize = r.minFont
	}
}
