package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"deckforge/internal/completion"
	"deckforge/internal/config"
	"deckforge/internal/ir"
	"deckforge/internal/logging"
)

const draftSystemPrompt = `You write presentation slide content. Given a slide title, type and goal, respond with JSON only:
{"slots": [{"id": string, "kind": "text"|"bullet"|"image"|"chart"|"table", ...payload}]}
Payloads: text {"text"}, bullet {"items": [string]}, image {"prompt", "alt_text"}, chart {"chart_type", "categories", "series": [{"name", "values"}]}, table {"headers", "rows"}.
Use these slot ids per slide type: title: title, subtitle; agenda: title, body; bullet: title, body; two_column: title, left, right; image: title, body, image; chart: title, chart, caption; table: title, table; section: title.
Keep text tight: bullets under 20 characters each, at most 6 items per list.`

const polishSystemPrompt = `You polish presentation slide content for concision and parallel structure. Respond with the same JSON shape you were given. Do not add slots.`

// Writer drafts and polishes slot content for one slide at a time.
type Writer struct {
	client completion.Client
	cfg    config.CompletionConfig
}

// NewWriter creates a content writer.
func NewWriter(client completion.Client, cfg config.CompletionConfig) *Writer {
	return &Writer{client: client, cfg: cfg}
}

// draftSlot is the wire form of one slot draft.
type draftSlot struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Text      string   `json:"text,omitempty"`
	Items     []string `json:"items,omitempty"`
	Prompt    string   `json:"prompt,omitempty"`
	AltText   string   `json:"alt_text,omitempty"`
	ChartType string   `json:"chart_type,omitempty"`

	Categories []string `json:"categories,omitempty"`
	Series     []struct {
		Name   string    `json:"name"`
		Values []float64 `json:"values"`
	} `json:"series,omitempty"`
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

type draftResponse struct {
	Slots []draftSlot `json:"slots"`
}

// Draft produces the first content pass for a planned slide. A failing
// client propagates the error (the pipeline treats it as fatal for the
// slide); merely malformed output falls back to skeleton slots so the
// deck always has something to lay out.
func (w *Writer) Draft(ctx context.Context, brief string, plan ir.SlidePlan) (*ir.Slide, error) {
	slide := &ir.Slide{
		ID:    plan.ID,
		Title: plan.Title,
		Type:  plan.Type,
		Stage: ir.StageDrafting,
		Slots: map[string]*ir.Slot{},
	}
	if w.client == nil {
		slide.Slots = skeletonSlots(plan)
		return slide, nil
	}

	prompt := fmt.Sprintf("Deck brief:\n%s\n\nSlide title: %s\nSlide type: %s\nSlide goal: %s",
		brief, plan.Title, plan.Type, plan.Goal)
	resp, err := w.client.CompleteWithSystem(ctx, draftSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("draft slide %s: %w", plan.ID, err)
	}

	slots, ok := w.decodeSlots(resp)
	if !ok {
		logging.Planner("slide %s draft not decodable, using skeleton content", plan.ID)
		slide.Slots = skeletonSlots(plan)
		return slide, nil
	}
	slide.Slots = slots
	return slide, nil
}

// Polish runs the concision pass over an already-drafted slide. Polish
// failures are soft: the draft stands.
func (w *Writer) Polish(ctx context.Context, slide *ir.Slide) error {
	return w.rewrite(ctx, slide, "", "")
}

// Regenerate rewrites content after verification found problems.
// slotID narrows the rewrite to one slot; guidance carries the issue
// context folded into the prompt.
func (w *Writer) Regenerate(ctx context.Context, slide *ir.Slide, slotID, guidance string) error {
	return w.rewrite(ctx, slide, slotID, guidance)
}

func (w *Writer) rewrite(ctx context.Context, slide *ir.Slide, slotID, guidance string) error {
	if w.client == nil {
		return nil
	}
	current := draftResponse{}
	for _, id := range sortedIDs(slide.Slots) {
		if slotID != "" && id != slotID {
			continue
		}
		current.Slots = append(current.Slots, toDraftSlot(slide.Slots[id]))
	}
	if len(current.Slots) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Slide title: %s\nSlide type: %s\n", slide.Title, slide.Type)
	if guidance != "" {
		b.WriteString("\n" + guidance + "\n")
	}
	b.WriteString("\nCurrent content:\n")
	b.WriteString(encodeDraft(current))

	resp, err := w.client.CompleteWithSystem(ctx, polishSystemPrompt, b.String())
	if err != nil {
		if guidance != "" {
			// Surface it; the caller accounts for the lost pass.
			return fmt.Errorf("regenerate slide %s: %w", slide.ID, err)
		}
		logging.Planner("slide %s polish failed, keeping draft: %v", slide.ID, err)
		return nil
	}

	slots, ok := w.decodeSlots(resp)
	if !ok {
		logging.Planner("slide %s rewrite not decodable, keeping current content", slide.ID)
		return nil
	}
	// Only replace slots that were sent out; the model must not be able
	// to grow the slide.
	for id, slot := range slots {
		existing, present := slide.Slots[id]
		if !present {
			continue
		}
		if slotID != "" && id != slotID {
			continue
		}
		existing.Content = slot.Content
		// The export strategy follows the content kind; a rewrite that
		// changes the kind changes the strategy with it.
		existing.Export = slot.Export
	}
	return nil
}

func (w *Writer) decodeSlots(resp string) (map[string]*ir.Slot, bool) {
	var dr draftResponse
	if err := completion.Decode(resp, &dr, w.cfg.RepairAttempts); err != nil || len(dr.Slots) == 0 {
		return nil, false
	}
	slots := map[string]*ir.Slot{}
	for _, d := range dr.Slots {
		if d.ID == "" {
			continue
		}
		content := d.toContent()
		if content == nil {
			continue
		}
		export := ir.ExportNative
		if content.Kind() == ir.SlotImage || content.Kind() == ir.SlotChart {
			export = ir.ExportImage
		}
		slots[d.ID] = &ir.Slot{ID: d.ID, Content: content, Export: export}
	}
	if len(slots) == 0 {
		return nil, false
	}
	return slots, true
}

func (d draftSlot) toContent() ir.SlotContent {
	switch ir.SlotKind(d.Kind) {
	case ir.SlotText:
		return &ir.TextContent{Text: d.Text}
	case ir.SlotBullet:
		return &ir.BulletContent{Items: d.Items}
	case ir.SlotImage:
		return &ir.ImageContent{Prompt: d.Prompt, AltText: d.AltText}
	case ir.SlotChart:
		c := &ir.ChartContent{ChartType: d.ChartType, Categories: d.Categories}
		for _, s := range d.Series {
			c.Series = append(c.Series, ir.ChartSeries{Name: s.Name, Values: s.Values})
		}
		return c
	case ir.SlotTable:
		return &ir.TableContent{Headers: d.Headers, Rows: d.Rows}
	default:
		return nil
	}
}

func toDraftSlot(slot *ir.Slot) draftSlot {
	d := draftSlot{ID: slot.ID}
	switch c := slot.Content.(type) {
	case *ir.TextContent:
		d.Kind, d.Text = string(ir.SlotText), c.Text
	case *ir.BulletContent:
		d.Kind, d.Items = string(ir.SlotBullet), c.Items
	case *ir.ImageContent:
		d.Kind, d.Prompt, d.AltText = string(ir.SlotImage), c.Prompt, c.AltText
	case *ir.ChartContent:
		d.Kind, d.ChartType, d.Categories = string(ir.SlotChart), c.ChartType, c.Categories
		for _, s := range c.Series {
			d.Series = append(d.Series, struct {
				Name   string    `json:"name"`
				Values []float64 `json:"values"`
			}{s.Name, s.Values})
		}
	case *ir.TableContent:
		d.Kind, d.Headers, d.Rows = string(ir.SlotTable), c.Headers, c.Rows
	}
	return d
}

func encodeDraft(dr draftResponse) string {
	data, err := json.Marshal(dr)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// skeletonSlots builds the deterministic content used when drafting
// cannot decode anything usable. Slot ids match the built-in template
// catalog so layout proceeds normally.
func skeletonSlots(plan ir.SlidePlan) map[string]*ir.Slot {
	text := func(id, s string) *ir.Slot {
		return &ir.Slot{ID: id, Content: &ir.TextContent{Text: s}, Export: ir.ExportNative}
	}
	bullets := func(id string, items ...string) *ir.Slot {
		return &ir.Slot{ID: id, Content: &ir.BulletContent{Items: items}, Export: ir.ExportNative}
	}
	goal := plan.Goal
	if goal == "" {
		goal = plan.Title
	}

	switch plan.Type {
	case ir.SlideTitle:
		return map[string]*ir.Slot{
			"title":    text("title", plan.Title),
			"subtitle": text("subtitle", goal),
		}
	case ir.SlideAgenda:
		return map[string]*ir.Slot{
			"title": text("title", plan.Title),
			"body":  bullets("body", "Overview", "Details", "Summary"),
		}
	case ir.SlideTwoColumn:
		return map[string]*ir.Slot{
			"title": text("title", plan.Title),
			"left":  bullets("left", goal),
			"right": bullets("right", goal),
		}
	case ir.SlideImage:
		return map[string]*ir.Slot{
			"title": text("title", plan.Title),
			"body":  bullets("body", goal),
			"image": {ID: "image", Content: &ir.ImageContent{Prompt: goal, AltText: plan.Title},
				Export: ir.ExportImage},
		}
	case ir.SlideChart:
		return map[string]*ir.Slot{
			"title": text("title", plan.Title),
			"chart": {ID: "chart", Content: &ir.ChartContent{ChartType: "bar"},
				Export: ir.ExportImage},
			"caption": text("caption", goal),
		}
	case ir.SlideTable:
		return map[string]*ir.Slot{
			"title": text("title", plan.Title),
			"table": {ID: "table", Content: &ir.TableContent{
				Headers: []string{"Item", "Value"},
				Rows:    [][]string{{goal, ""}},
			}, Export: ir.ExportNative},
		}
	case ir.SlideSection:
		return map[string]*ir.Slot{"title": text("title", plan.Title)}
	default:
		return map[string]*ir.Slot{
			"title": text("title", plan.Title),
			"body":  bullets("body", goal),
		}
	}
}

func sortedIDs(slots map[string]*ir.Slot) []string {
	ids := make([]string, 0, len(slots))
	for id := range slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
