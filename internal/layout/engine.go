// Package layout turns a slide's logical slots into absolute pixel
// bounding boxes on a column/row grid. Layout never fails: slots the
// template does not cover fall back to the slide-type default region.
package layout

import (
	"math"
	"sort"

	"deckforge/internal/config"
	"deckforge/internal/ir"
	"deckforge/internal/logging"
	"deckforge/internal/template"
)

// Engine computes slot bounding boxes from templates.
type Engine struct {
	cfg config.LayoutConfig
}

// NewEngine creates a layout engine.
func NewEngine(cfg config.LayoutConfig) *Engine {
	return &Engine{cfg: cfg}
}

// LayoutSlide assigns a bbox (and template typography, where present)
// to every slot of the slide. The input slide is mutated in place and
// returned; ownership rules make this safe (one pipeline per slide).
func (e *Engine) LayoutSlide(slide *ir.Slide, tmpl *template.Template, slideWidth, slideHeight float64) *ir.Slide {
	timer := logging.StartTimer(logging.CategoryLayout, "LayoutSlide")
	defer timer.Stop()

	if tmpl == nil {
		tmpl = &template.Template{ID: template.DefaultTemplateID, Slots: map[string]template.SlotPlacement{}}
	}

	// Deterministic order keeps fallback stacking stable run to run.
	ids := make([]string, 0, len(slide.Slots))
	for id := range slide.Slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fallbackIndex := 0
	var fallbackTotal int
	for _, id := range ids {
		if _, ok := tmpl.Slots[id]; !ok {
			fallbackTotal++
		}
	}

	for _, id := range ids {
		slot := slide.Slots[id]
		placement, ok := tmpl.Slots[id]
		var bbox ir.BBox
		if ok {
			bbox = e.placementBBox(placement, slideWidth, slideHeight)
		} else {
			bbox = e.fallbackBBox(slide.Type, fallbackIndex, fallbackTotal, slideWidth, slideHeight)
			fallbackIndex++
			logging.Layout("slide %s slot %s not in template %s, default region", slide.ID, id, tmpl.ID)
		}
		bbox = clampToSlide(bbox, slideWidth, slideHeight)
		snapped := e.SnapToGrid(bbox)
		// Snapping is cosmetic only; keep the unsnapped box if
		// rounding would push it out of bounds.
		if inSlide(snapped, slideWidth, slideHeight) {
			bbox = snapped
		}
		slot.BBox = &bbox

		if style, ok := tmpl.Typography[id]; ok {
			applyTypography(slot, style)
		}
	}
	return slide
}

// placementBBox computes the pixel box implied by a grid placement,
// then applies min/max constraints: min wins over the computed size,
// max caps the result afterward.
func (e *Engine) placementBBox(p template.SlotPlacement, slideWidth, slideHeight float64) ir.BBox {
	cols := float64(e.cfg.Columns)
	rows := float64(e.cfg.Rows)
	colWidth := (slideWidth - 2*e.cfg.Margin - (cols-1)*e.cfg.Gutter) / cols
	rowHeight := (slideHeight - 2*e.cfg.Margin - (rows-1)*e.cfg.Gutter) / rows

	span := func(n int, unit float64) float64 {
		if n < 1 {
			n = 1
		}
		return float64(n)*unit + float64(n-1)*e.cfg.Gutter
	}

	bbox := ir.BBox{
		X:      e.cfg.Margin + float64(p.ColumnStart)*(colWidth+e.cfg.Gutter),
		Y:      e.cfg.Margin + float64(p.RowStart)*(rowHeight+e.cfg.Gutter),
		Width:  span(p.ColumnSpan, colWidth),
		Height: span(p.RowSpan, rowHeight),
	}

	if p.MinWidth > 0 && bbox.Width < p.MinWidth {
		bbox.Width = p.MinWidth
	}
	if p.MinHeight > 0 && bbox.Height < p.MinHeight {
		bbox.Height = p.MinHeight
	}
	if p.MaxWidth > 0 && bbox.Width > p.MaxWidth {
		bbox.Width = p.MaxWidth
	}
	if p.MaxHeight > 0 && bbox.Height > p.MaxHeight {
		bbox.Height = p.MaxHeight
	}
	return bbox
}

// fallbackBBox is the default single-region rule: the content area
// inside the margins, split into equal horizontal bands when several
// slots need fallback placement on one slide.
func (e *Engine) fallbackBBox(st ir.SlideType, index, total int, slideWidth, slideHeight float64) ir.BBox {
	if total < 1 {
		total = 1
	}
	contentW := slideWidth - 2*e.cfg.Margin
	contentH := slideHeight - 2*e.cfg.Margin
	bandH := (contentH - float64(total-1)*e.cfg.Gutter) / float64(total)
	return ir.BBox{
		X:      e.cfg.Margin,
		Y:      e.cfg.Margin + float64(index)*(bandH+e.cfg.Gutter),
		Width:  contentW,
		Height: bandH,
	}
}

// SnapToGrid rounds all four bbox fields to the nearest multiple of
// the grid unit. Idempotent; cosmetic alignment only.
func (e *Engine) SnapToGrid(b ir.BBox) ir.BBox {
	u := e.cfg.GridUnit
	if u <= 0 {
		return b
	}
	snap := func(v float64) float64 { return math.Round(v/u) * u }
	return ir.BBox{
		X:      snap(b.X),
		Y:      snap(b.Y),
		Width:  snap(b.Width),
		Height: snap(b.Height),
	}
}

// clampToSlide forces the box inside (0,0)-(w,h), shrinking before
// moving so oversized min constraints stay visible.
func clampToSlide(b ir.BBox, w, h float64) ir.BBox {
	if b.Width > w {
		b.Width = w
	}
	if b.Height > h {
		b.Height = h
	}
	if b.X < 0 {
		b.X = 0
	}
	if b.Y < 0 {
		b.Y = 0
	}
	if b.Right() > w {
		b.X = w - b.Width
	}
	if b.Bottom() > h {
		b.Y = h - b.Height
	}
	return b
}

func inSlide(b ir.BBox, w, h float64) bool {
	return b.X >= 0 && b.Y >= 0 && b.Right() <= w && b.Bottom() <= h
}

// applyTypography fills style fields the slot does not already set.
// Reflection's font adjustments must survive a re-layout pass, so an
// existing font size is never overwritten.
func applyTypography(slot *ir.Slot, style ir.Style) {
	if slot.Style == nil {
		s := style
		slot.Style = &s
		return
	}
	if slot.Style.FontSize == 0 {
		slot.Style.FontSize = style.FontSize
	}
	if slot.Style.FontWeight == "" {
		slot.Style.FontWeight = style.FontWeight
	}
	if slot.Style.Color == "" {
		slot.Style.Color = style.Color
	}
	if slot.Style.Align == "" {
		slot.Style.Align = style.Align
	}
}
