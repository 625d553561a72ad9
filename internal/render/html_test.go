package render

import (
	"strings"
	"testing"

	"deckforge/internal/ir"
)

func laidOutSlide() *ir.Slide {
	return &ir.Slide{
		ID:   "s1",
		Type: ir.SlideBullet,
		Slots: map[string]*ir.Slot{
			"title": {
				ID:      "title",
				Content: &ir.TextContent{Text: "Quarterly Review"},
				BBox:    &ir.BBox{X: 48, Y: 48, Width: 1184, Height: 96},
				Style:   &ir.Style{FontSize: 32, FontWeight: "bold"},
			},
			"body": {
				ID:      "body",
				Content: &ir.BulletContent{Items: []string{"revenue", "churn"}},
				BBox:    &ir.BBox{X: 48, Y: 160, Width: 1184, Height: 500},
				Style:   &ir.Style{FontSize: 20},
			},
		},
	}
}

func TestSlideHTMLDeterministic(t *testing.T) {
	slide := laidOutSlide()
	a, err := SlideHTML(slide, "background:#fff", 1280, 720)
	if err != nil {
		t.Fatal(err)
	}
	b, err := SlideHTML(slide, "background:#fff", 1280, 720)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("identical input must render byte-identical output")
	}
	for _, want := range []string{
		`data-slide-id="s1"`,
		`data-slot-id="title"`,
		"font-size:32px",
		"<li>revenue</li>",
		"left:48px;top:160px",
	} {
		if !strings.Contains(a, want) {
			t.Fatalf("output missing %q:\n%s", want, a)
		}
	}
}

func TestSlideHTMLSkipsUnlaidSlots(t *testing.T) {
	slide := laidOutSlide()
	slide.Slots["pending"] = &ir.Slot{
		ID:      "pending",
		Content: &ir.TextContent{Text: "not placed yet"},
	}
	out, err := SlideHTML(slide, "", 1280, 720)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "pending") {
		t.Fatal("slot without a bbox must not render")
	}
}

func TestSlideHTMLEscapesContent(t *testing.T) {
	slide := &ir.Slide{
		ID:   "s1",
		Type: ir.SlideBullet,
		Slots: map[string]*ir.Slot{
			"body": {
				ID:      "body",
				Content: &ir.TextContent{Text: `<script>alert("x")</script>`},
				BBox:    &ir.BBox{X: 0, Y: 0, Width: 100, Height: 100},
			},
		},
	}
	out, err := SlideHTML(slide, "", 1280, 720)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatal("content must be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("escaped form missing:\n%s", out)
	}
}

func TestSlideHTMLContentKinds(t *testing.T) {
	box := &ir.BBox{X: 0, Y: 0, Width: 400, Height: 300}
	slide := &ir.Slide{
		ID:   "s1",
		Type: ir.SlideChart,
		Slots: map[string]*ir.Slot{
			"img": {ID: "img", BBox: box, Content: &ir.ImageContent{
				AssetRef: "assets/pic.png", AltText: "team photo"}},
			"chart": {ID: "chart", BBox: box, Content: &ir.ChartContent{
				ChartType: "bar",
				Series:    []ir.ChartSeries{{Name: "2025"}},
			}},
			"table": {ID: "table", BBox: box, Content: &ir.TableContent{
				Headers: []string{"region", "growth"},
				Rows:    [][]string{{"EMEA", "12%"}},
			}},
		},
	}
	out, err := SlideHTML(slide, "", 1280, 720)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`src="assets/pic.png"`,
		"bar chart",
		"2025",
		"<th>region</th>",
		"<td>EMEA</td>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDeckHTML(t *testing.T) {
	deck := &ir.Deck{
		ID:    "d1",
		Title: "Board Update",
		Slides: []*ir.Slide{
			laidOutSlide(),
			{ID: "s2", Type: ir.SlideSection, Slots: map[string]*ir.Slot{
				"heading": {ID: "heading", Content: &ir.TextContent{Text: "Part Two"},
					BBox: &ir.BBox{X: 48, Y: 300, Width: 1184, Height: 120}},
			}},
		},
	}
	out, err := DeckHTML(deck, map[ir.SlideType]string{
		ir.SlideBullet: "background:#f8fafc",
	}, 1280, 720)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<title>Board Update</title>") {
		t.Fatal("page title missing")
	}
	if strings.Count(out, `class="slide"`) != 2 {
		t.Fatalf("expected 2 slides:\n%s", out)
	}
	if !strings.Contains(out, "background:#f8fafc;") {
		t.Fatal("per-type background variant not applied")
	}
}
