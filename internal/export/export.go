// Package export turns a finalized deck into artifacts on disk. The
// first configured format is the primary artifact; the rest are
// derived documents whose failure never fails the export.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"deckforge/internal/config"
	"deckforge/internal/ir"
	"deckforge/internal/logging"
	"deckforge/internal/render"
	"deckforge/internal/template"
)

// Writer produces one artifact from a finalized deck and returns its
// path.
type Writer interface {
	Format() string
	Write(ctx context.Context, deck *ir.Deck, outDir string) (string, error)
}

// Exporter runs the configured writers in order.
type Exporter struct {
	cfg     config.ExportConfig
	writers map[string]Writer
}

// NewExporter registers writers for the configured formats.
func NewExporter(cfg config.ExportConfig, writers ...Writer) *Exporter {
	byFormat := make(map[string]Writer, len(writers))
	for _, w := range writers {
		byFormat[w.Format()] = w
	}
	return &Exporter{cfg: cfg, writers: byFormat}
}

// Export writes every configured format and returns the produced
// paths. Only a failing primary (first) format is an error; secondary
// failures are logged and skipped.
func (e *Exporter) Export(ctx context.Context, deck *ir.Deck) ([]string, error) {
	if err := os.MkdirAll(e.cfg.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var paths []string
	for i, format := range e.cfg.Formats {
		w, ok := e.writers[format]
		if !ok {
			if i == 0 {
				return nil, fmt.Errorf("no writer registered for primary format %q", format)
			}
			logging.Export("no writer for format %q, skipping", format)
			continue
		}
		path, err := w.Write(ctx, deck, e.cfg.OutDir)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("write primary %s artifact: %w", format, err)
			}
			logging.Export("derived %s artifact failed for deck %s: %v", format, deck.ID, err)
			continue
		}
		logging.Export("deck %s exported as %s -> %s", deck.ID, format, path)
		paths = append(paths, path)
	}
	return paths, nil
}

// HTMLWriter emits the deck as one self-contained HTML page with the
// theme's background variants applied.
type HTMLWriter struct {
	registry      *template.Registry
	width, height float64
}

// NewHTMLWriter creates the HTML writer.
func NewHTMLWriter(registry *template.Registry, width, height float64) *HTMLWriter {
	return &HTMLWriter{registry: registry, width: width, height: height}
}

// Format implements Writer.
func (w *HTMLWriter) Format() string { return "html" }

// Write implements Writer.
func (w *HTMLWriter) Write(_ context.Context, deck *ir.Deck, outDir string) (string, error) {
	html, err := render.DeckHTML(deck, w.backgrounds(deck), w.width, w.height)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outDir, deck.ID+".html")
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (w *HTMLWriter) backgrounds(deck *ir.Deck) map[ir.SlideType]string {
	out := map[ir.SlideType]string{}
	theme, ok := w.registry.ThemeByID(deck.ThemeID)
	if !ok {
		return out
	}
	for st, variantID := range deck.Variants {
		for _, v := range theme.Variants[st] {
			if v.ID == variantID {
				out[st] = v.CSS
				break
			}
		}
	}
	return out
}

// JSONWriter dumps the deck IR, which round-trips losslessly through
// the slot envelope encoding.
type JSONWriter struct{}

// Format implements Writer.
func (JSONWriter) Format() string { return "json" }

// Write implements Writer.
func (JSONWriter) Write(_ context.Context, deck *ir.Deck, outDir string) (string, error) {
	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode deck %s: %w", deck.ID, err)
	}
	path := filepath.Join(outDir, deck.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
