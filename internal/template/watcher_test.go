package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deckforge/internal/ir"
)

func TestLoadCatalogOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	body := `
templates:
  - id: bullet-compact
    slide_type: bullet
    slots:
      title: {column_start: 0, column_span: 12, row_start: 0, row_span: 1}
      body: {column_start: 0, column_span: 12, row_start: 1, row_span: 10}
themes:
  - id: sunset
    name: Sunset
    tags: [warm]
    variants:
      title:
        - {id: dusk, tags: [warm], css: "background: #ff7e5f"}
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewRegistry()
	if err := r.LoadCatalog(path); err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	if _, ok := r.TemplateByID("bullet-compact"); !ok {
		t.Fatalf("overlay template not registered")
	}
	th, ok := r.ThemeByID("sunset")
	if !ok {
		t.Fatalf("overlay theme not registered")
	}
	if got := SelectVariant(th, ir.SlideTitle, []string{"warm"}); got != "dusk" {
		t.Fatalf("variant = %s, want dusk", got)
	}
}

func TestLoadCatalogMissingFileIsNoop(t *testing.T) {
	r := NewRegistry()
	before := len(r.Themes())
	if err := r.LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(r.Themes()) != before {
		t.Fatalf("registry changed by missing file")
	}
}

func TestLoadCatalogRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("templates: {not: [valid"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := NewRegistry().LoadCatalog(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStartFailureLeavesWatcherStoppable(t *testing.T) {
	// Watching a nonexistent directory fails; Stop must still return.
	w, err := NewWatcher(NewRegistry(), filepath.Join(t.TempDir(), "missing", "templates.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected error for unwatchable directory")
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
}
