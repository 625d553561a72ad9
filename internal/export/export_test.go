package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deckforge/internal/config"
	"deckforge/internal/ir"
	"deckforge/internal/template"
)

func exportDeck() *ir.Deck {
	return &ir.Deck{
		ID:      "deck-1",
		Title:   "Launch",
		ThemeID: template.DefaultThemeID,
		Variants: map[ir.SlideType]string{
			ir.SlideTitle: "soft-gradient",
		},
		Slides: []*ir.Slide{
			{
				ID: "s1", Title: "Launch", Type: ir.SlideTitle, Stage: ir.StageFinal,
				Slots: map[string]*ir.Slot{
					"title": {
						ID:      "title",
						Content: &ir.TextContent{Text: "Launch"},
						BBox:    &ir.BBox{X: 48, Y: 280, Width: 1184, Height: 120},
						Style:   &ir.Style{FontSize: 44},
						Export:  ir.ExportNative,
					},
				},
			},
		},
	}
}

func testExporter(t *testing.T, formats ...string) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.ExportConfig{OutDir: dir, Formats: formats}
	reg := template.NewRegistry()
	e := NewExporter(cfg, NewHTMLWriter(reg, 1280, 720), JSONWriter{})
	return e, dir
}

func TestExportWritesBothFormats(t *testing.T) {
	e, dir := testExporter(t, "html", "json")
	paths, err := e.Export(context.Background(), exportDeck())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}

	html, err := os.ReadFile(filepath.Join(dir, "deck-1.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "<title>Launch</title>") {
		t.Fatal("HTML artifact missing title")
	}
	if !strings.Contains(string(html), "linear-gradient") {
		t.Fatal("theme background variant not applied")
	}

	data, err := os.ReadFile(filepath.Join(dir, "deck-1.json"))
	if err != nil {
		t.Fatal(err)
	}
	var restored ir.Deck
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatal(err)
	}
	got := restored.Slides[0].Slots["title"].Content.(*ir.TextContent)
	if got.Text != "Launch" {
		t.Fatalf("JSON round-trip lost content: %q", got.Text)
	}
}

type failingWriter struct{ format string }

func (f failingWriter) Format() string { return f.format }
func (f failingWriter) Write(context.Context, *ir.Deck, string) (string, error) {
	return "", errors.New("disk full")
}

func TestSecondaryFailureDoesNotFailPrimary(t *testing.T) {
	dir := t.TempDir()
	cfg := config.ExportConfig{OutDir: dir, Formats: []string{"json", "pdf"}}
	e := NewExporter(cfg, JSONWriter{}, failingWriter{format: "pdf"})

	paths, err := e.Export(context.Background(), exportDeck())
	if err != nil {
		t.Fatalf("secondary failure must not surface: %v", err)
	}
	if len(paths) != 1 || !strings.HasSuffix(paths[0], "deck-1.json") {
		t.Fatalf("paths = %v", paths)
	}
}

func TestPrimaryFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := config.ExportConfig{OutDir: dir, Formats: []string{"pdf", "json"}}
	e := NewExporter(cfg, failingWriter{format: "pdf"}, JSONWriter{})

	if _, err := e.Export(context.Background(), exportDeck()); err == nil {
		t.Fatal("primary failure must surface")
	}
}

func TestMissingSecondaryWriterIsSkipped(t *testing.T) {
	e, _ := testExporter(t, "html", "pptx")
	paths, err := e.Export(context.Background(), exportDeck())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("paths = %v", paths)
	}
}
