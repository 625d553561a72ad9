package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"deckforge/internal/completion"
	"deckforge/internal/config"
	"deckforge/internal/ir"
)

func TestPlanDecodesOutline(t *testing.T) {
	mock := completion.NewMockClient().Respond("Plan exactly 3 slides", "```json\n"+
		`[{"title":"Welcome","type":"title","goal":"open"},
		  {"title":"Numbers","type":"chart","goal":"show growth"},
		  {"title":"Close","type":"section","goal":"wrap up"}]`+"\n```")
	p := New(mock, config.DefaultCompletionConfig())

	plans := p.Plan(context.Background(), "Q3 results", 3)
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}
	if plans[0].Type != ir.SlideTitle || plans[1].Type != ir.SlideChart || plans[2].Type != ir.SlideSection {
		t.Fatalf("types wrong: %+v", plans)
	}
	for _, pl := range plans {
		if pl.ID == "" {
			t.Fatal("plan without id")
		}
	}
}

func TestPlanRepairsBadTypes(t *testing.T) {
	mock := completion.NewMockClient()
	mock.Fallback = `[{"title":"A","type":"hologram","goal":"?"},{"title":"","type":"bullet","goal":""}]`
	p := New(mock, config.DefaultCompletionConfig())

	plans := p.Plan(context.Background(), "brief", 2)
	if plans[0].Type != ir.SlideBullet {
		t.Fatalf("unknown type must degrade to bullet, got %s", plans[0].Type)
	}
	if plans[1].Title == "" {
		t.Fatal("empty title must be filled in")
	}
}

func TestPlanFallsBackOnFailure(t *testing.T) {
	mock := completion.NewMockClient()
	mock.FailWith = errors.New("quota exceeded")
	p := New(mock, config.DefaultCompletionConfig())

	plans := p.Plan(context.Background(), "Incident postmortem", 5)
	if len(plans) != 5 {
		t.Fatalf("fallback produced %d plans, want 5", len(plans))
	}
	if plans[0].Type != ir.SlideTitle || plans[1].Type != ir.SlideAgenda {
		t.Fatalf("fallback shape wrong: %+v", plans[:2])
	}
	for _, pl := range plans[2:] {
		if pl.Type != ir.SlideBullet {
			t.Fatalf("fallback body slide has type %s", pl.Type)
		}
	}
}

func TestPlanFallsBackOnGarbage(t *testing.T) {
	mock := completion.NewMockClient()
	mock.Fallback = "I'd be happy to help you plan a presentation!"
	p := New(mock, config.DefaultCompletionConfig())

	plans := p.Plan(context.Background(), "brief", 2)
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
}

func TestPlanTruncatesOverlongOutline(t *testing.T) {
	mock := completion.NewMockClient()
	mock.Fallback = `[{"title":"1","type":"title"},{"title":"2","type":"bullet"},{"title":"3","type":"bullet"},{"title":"4","type":"bullet"}]`
	p := New(mock, config.DefaultCompletionConfig())

	if got := len(p.Plan(context.Background(), "brief", 2)); got != 2 {
		t.Fatalf("got %d plans, want 2", got)
	}
}

func TestDraftBuildsSlots(t *testing.T) {
	mock := completion.NewMockClient().Respond("Slide type: bullet",
		`{"slots":[{"id":"title","kind":"text","text":"Roadmap"},
		           {"id":"body","kind":"bullet","items":["M1","M2"]}]}`)
	w := NewWriter(mock, config.DefaultCompletionConfig())

	slide, err := w.Draft(context.Background(), "brief", ir.SlidePlan{
		ID: "s1", Title: "Roadmap", Type: ir.SlideBullet, Goal: "show milestones",
	})
	if err != nil {
		t.Fatal(err)
	}
	if slide.Stage != ir.StageDrafting {
		t.Fatalf("stage = %s", slide.Stage)
	}
	if got := slide.Slots["title"].Content.(*ir.TextContent).Text; got != "Roadmap" {
		t.Fatalf("title = %q", got)
	}
	if got := slide.Slots["body"].Content.(*ir.BulletContent).Items; len(got) != 2 {
		t.Fatalf("items = %v", got)
	}
}

func TestDraftMarksImageAndChartForImageExport(t *testing.T) {
	mock := completion.NewMockClient()
	mock.Fallback = `{"slots":[{"id":"image","kind":"image","prompt":"city skyline"},
	                           {"id":"chart","kind":"chart","chart_type":"line"},
	                           {"id":"title","kind":"text","text":"t"}]}`
	w := NewWriter(mock, config.DefaultCompletionConfig())

	slide, err := w.Draft(context.Background(), "b", ir.SlidePlan{ID: "s1", Type: ir.SlideImage})
	if err != nil {
		t.Fatal(err)
	}
	if slide.Slots["image"].Export != ir.ExportImage || slide.Slots["chart"].Export != ir.ExportImage {
		t.Fatal("image/chart slots must export as images")
	}
	if slide.Slots["title"].Export != ir.ExportNative {
		t.Fatal("text slots must export natively")
	}
}

func TestDraftFailurePropagates(t *testing.T) {
	mock := completion.NewMockClient()
	mock.FailWith = errors.New("backend down")
	w := NewWriter(mock, config.DefaultCompletionConfig())

	if _, err := w.Draft(context.Background(), "b", ir.SlidePlan{ID: "s1", Type: ir.SlideBullet}); err == nil {
		t.Fatal("client failure must propagate from Draft")
	}
}

func TestDraftGarbageFallsBackToSkeleton(t *testing.T) {
	mock := completion.NewMockClient()
	mock.Fallback = "no json here"
	w := NewWriter(mock, config.DefaultCompletionConfig())

	slide, err := w.Draft(context.Background(), "b", ir.SlidePlan{
		ID: "s1", Title: "Costs", Type: ir.SlideTable,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := slide.Slots["table"].Content.(*ir.TableContent); !ok {
		t.Fatalf("skeleton missing table slot: %+v", slide.Slots)
	}
}

func TestPolishFailureKeepsDraft(t *testing.T) {
	mock := completion.NewMockClient()
	mock.FailWith = errors.New("transient")
	w := NewWriter(mock, config.DefaultCompletionConfig())

	slide := &ir.Slide{ID: "s1", Title: "T", Type: ir.SlideBullet, Slots: map[string]*ir.Slot{
		"body": {ID: "body", Content: &ir.BulletContent{Items: []string{"keep me"}}},
	}}
	if err := w.Polish(context.Background(), slide); err != nil {
		t.Fatalf("polish failure must be soft: %v", err)
	}
	if got := slide.Slots["body"].Content.(*ir.BulletContent).Items[0]; got != "keep me" {
		t.Fatalf("draft content lost: %q", got)
	}
}

func TestRegenerateTargetsSingleSlot(t *testing.T) {
	mock := completion.NewMockClient()
	mock.Fallback = `{"slots":[{"id":"body","kind":"bullet","items":["tight"]},
	                           {"id":"title","kind":"text","text":"hijacked"},
	                           {"id":"extra","kind":"text","text":"sneaky"}]}`
	w := NewWriter(mock, config.DefaultCompletionConfig())

	slide := &ir.Slide{ID: "s1", Title: "T", Type: ir.SlideBullet, Slots: map[string]*ir.Slot{
		"title": {ID: "title", Content: &ir.TextContent{Text: "original"}},
		"body":  {ID: "body", Content: &ir.BulletContent{Items: []string{"way", "too", "much"}}},
	}}
	if err := w.Regenerate(context.Background(), slide, "body", "reduce overflow"); err != nil {
		t.Fatal(err)
	}
	if got := slide.Slots["body"].Content.(*ir.BulletContent).Items; len(got) != 1 || got[0] != "tight" {
		t.Fatalf("body not regenerated: %v", got)
	}
	if got := slide.Slots["title"].Content.(*ir.TextContent).Text; got != "original" {
		t.Fatalf("untargeted slot mutated: %q", got)
	}
	if _, ok := slide.Slots["extra"]; ok {
		t.Fatal("model must not be able to add slots")
	}
}

func TestRegenerateRecomputesExportStrategy(t *testing.T) {
	mock := completion.NewMockClient()
	mock.Fallback = `{"slots":[{"id":"body","kind":"image","prompt":"diagram","alt_text":"diagram"}]}`
	w := NewWriter(mock, config.DefaultCompletionConfig())

	slide := &ir.Slide{ID: "s1", Type: ir.SlideBullet, Slots: map[string]*ir.Slot{
		"body": {ID: "body", Content: &ir.BulletContent{Items: []string{"a"}}, Export: ir.ExportNative},
	}}
	if err := w.Regenerate(context.Background(), slide, "body", "replace with a diagram"); err != nil {
		t.Fatal(err)
	}
	slot := slide.Slots["body"]
	if _, ok := slot.Content.(*ir.ImageContent); !ok {
		t.Fatalf("content not regenerated: %#v", slot.Content)
	}
	if slot.Export != ir.ExportImage {
		t.Fatalf("export strategy = %s, want %s", slot.Export, ir.ExportImage)
	}
}

func TestRegenerateFailureIsHard(t *testing.T) {
	mock := completion.NewMockClient()
	mock.FailWith = errors.New("down")
	w := NewWriter(mock, config.DefaultCompletionConfig())

	slide := &ir.Slide{ID: "s1", Slots: map[string]*ir.Slot{
		"body": {ID: "body", Content: &ir.TextContent{Text: "x"}},
	}}
	if err := w.Regenerate(context.Background(), slide, "body", "guidance"); err == nil {
		t.Fatal("regeneration failure must propagate")
	}
}

func TestRegenerateGuidanceReachesPrompt(t *testing.T) {
	mock := completion.NewMockClient()
	mock.Fallback = `{"slots":[{"id":"body","kind":"text","text":"ok"}]}`
	w := NewWriter(mock, config.DefaultCompletionConfig())

	slide := &ir.Slide{ID: "s1", Slots: map[string]*ir.Slot{
		"body": {ID: "body", Content: &ir.TextContent{Text: "x"}},
	}}
	if err := w.Regenerate(context.Background(), slide, "body", "overflow in slot body"); err != nil {
		t.Fatal(err)
	}
	calls := mock.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0].User, "overflow in slot body") {
		t.Fatalf("guidance missing from prompt: %+v", calls)
	}
}
