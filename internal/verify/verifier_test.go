package verify

import (
	"math/rand"
	"strings"
	"testing"

	"deckforge/internal/config"
	"deckforge/internal/ir"
)

const (
	slideW = 1280.0
	slideH = 720.0
)

func newVerifier() *Verifier {
	return NewVerifier(config.DefaultVerificationConfig())
}

func countIssues(issues []ir.Issue, it ir.IssueType) int {
	n := 0
	for _, is := range issues {
		if is.Type == it {
			n++
		}
	}
	return n
}

func TestOverflowDetection(t *testing.T) {
	v := newVerifier()

	// A 600px-tall slot whose bullets need ~900px: exactly one
	// overflow error.
	items := make([]string, 30)
	for i := range items {
		items[i] = strings.Repeat("内容", 18) // 36 runes per item
	}
	slide := &ir.Slide{
		ID:   "s1",
		Type: ir.SlideBullet,
		Slots: map[string]*ir.Slot{
			"body": {
				ID:      "body",
				Content: &ir.BulletContent{Items: items},
				BBox:    &ir.BBox{X: 100, Y: 100, Width: 600, Height: 600},
				Export:  ir.ExportNative,
			},
		},
	}

	required := v.EstimateRequiredHeight(slide.Slots["body"], 600)
	if required <= 600 {
		t.Fatalf("test fixture too small: estimated %.0fpx", required)
	}

	issues := v.Verify(slide, slideW, slideH)
	if got := countIssues(issues, ir.IssueOverflow); got != 1 {
		t.Fatalf("overflow issues = %d, want 1 (issues: %+v)", got, issues)
	}

	metrics := v.ComputeMetrics(slide, issues)
	score := Score(metrics, config.DefaultVerificationConfig())
	if score > 85 {
		t.Fatalf("overflowing slide scored %.1f, want <= 85", score)
	}
}

func TestNoOverflowForFittingContent(t *testing.T) {
	v := newVerifier()
	slide := &ir.Slide{
		ID:   "s1",
		Type: ir.SlideBullet,
		Slots: map[string]*ir.Slot{
			"body": {
				ID:      "body",
				Content: &ir.BulletContent{Items: []string{"short", "items"}},
				BBox:    &ir.BBox{X: 100, Y: 100, Width: 600, Height: 400},
				Export:  ir.ExportNative,
			},
		},
	}
	issues := v.Verify(slide, slideW, slideH)
	if got := countIssues(issues, ir.IssueOverflow); got != 0 {
		t.Fatalf("unexpected overflow: %+v", issues)
	}
}

func TestFontTooSmall(t *testing.T) {
	v := newVerifier()
	slide := &ir.Slide{
		ID:   "s1",
		Type: ir.SlideBullet,
		Slots: map[string]*ir.Slot{
			"body": {
				ID:      "body",
				Content: &ir.TextContent{Text: "x"},
				BBox:    &ir.BBox{X: 100, Y: 100, Width: 400, Height: 200},
				Style:   &ir.Style{FontSize: 10},
				Export:  ir.ExportNative,
			},
		},
	}
	issues := v.Verify(slide, slideW, slideH)
	if got := countIssues(issues, ir.IssueFontTooSmall); got != 1 {
		t.Fatalf("font_too_small issues = %d, want 1", got)
	}
	for _, is := range issues {
		if is.Type == ir.IssueFontTooSmall && is.Severity != ir.SeverityWarning {
			t.Fatalf("font_too_small should be a warning, got %s", is.Severity)
		}
	}
}

func TestMarginViolation(t *testing.T) {
	v := newVerifier()
	slide := &ir.Slide{
		ID:   "s1",
		Type: ir.SlideBullet,
		Slots: map[string]*ir.Slot{
			"edge": {
				ID:      "edge",
				Content: &ir.TextContent{Text: "x"},
				BBox:    &ir.BBox{X: 0, Y: 100, Width: 200, Height: 100},
				Export:  ir.ExportNative,
			},
		},
	}
	issues := v.Verify(slide, slideW, slideH)
	if got := countIssues(issues, ir.IssueMarginViolation); got != 1 {
		t.Fatalf("margin issues = %d, want 1 (issues: %+v)", got, issues)
	}
}

func TestOverlapPairProperty(t *testing.T) {
	v := newVerifier()
	rng := rand.New(rand.NewSource(42))

	// Randomized rectangle pairs: overlap issues appear exactly when
	// the rectangles share pixel area, one issue per pair.
	for i := 0; i < 300; i++ {
		a := ir.BBox{
			X:      200 + rng.Float64()*300,
			Y:      100 + rng.Float64()*200,
			Width:  50 + rng.Float64()*300,
			Height: 50 + rng.Float64()*200,
		}
		b := ir.BBox{
			X:      200 + rng.Float64()*300,
			Y:      100 + rng.Float64()*200,
			Width:  50 + rng.Float64()*300,
			Height: 50 + rng.Float64()*200,
		}
		slide := &ir.Slide{
			ID:   "s",
			Type: ir.SlideTwoColumn,
			Slots: map[string]*ir.Slot{
				"a": {ID: "a", Content: &ir.TextContent{Text: "x"}, BBox: &a, Export: ir.ExportNative},
				"b": {ID: "b", Content: &ir.TextContent{Text: "y"}, BBox: &b, Export: ir.ExportNative},
			},
		}
		issues := v.Verify(slide, 2000, 2000)
		got := countIssues(issues, ir.IssueOverlap)
		want := 0
		if a.Intersects(b) {
			want = 1
		}
		if got != want {
			t.Fatalf("iteration %d: a=%+v b=%+v overlap issues = %d, want %d", i, a, b, got, want)
		}
	}
}

func TestOverlapThreeSlotsCountsPairs(t *testing.T) {
	v := newVerifier()
	box := func(x float64) *ir.BBox { return &ir.BBox{X: x, Y: 100, Width: 300, Height: 300} }
	slide := &ir.Slide{
		ID:   "s",
		Type: ir.SlideTwoColumn,
		Slots: map[string]*ir.Slot{
			// a overlaps b, b overlaps c, a does not reach c.
			"a": {ID: "a", Content: &ir.TextContent{Text: "1"}, BBox: box(100), Export: ir.ExportNative},
			"b": {ID: "b", Content: &ir.TextContent{Text: "2"}, BBox: box(350), Export: ir.ExportNative},
			"c": {ID: "c", Content: &ir.TextContent{Text: "3"}, BBox: box(600), Export: ir.ExportNative},
		},
	}
	issues := v.Verify(slide, 2000, 2000)
	if got := countIssues(issues, ir.IssueOverlap); got != 2 {
		t.Fatalf("overlap issues = %d, want 2", got)
	}
}

func TestUnlaidSlotsAreSkipped(t *testing.T) {
	v := newVerifier()
	slide := &ir.Slide{
		ID:   "s",
		Type: ir.SlideBullet,
		Slots: map[string]*ir.Slot{
			"pending": {ID: "pending", Content: &ir.TextContent{Text: strings.Repeat("很", 5000)}},
		},
	}
	if issues := v.Verify(slide, slideW, slideH); len(issues) != 0 {
		t.Fatalf("slot without bbox must not be verified: %+v", issues)
	}
}
