package ir

import (
	"encoding/json"
	"fmt"
)

// SlotKind discriminates the closed set of slot content variants.
type SlotKind string

const (
	SlotText   SlotKind = "text"
	SlotBullet SlotKind = "bullet"
	SlotImage  SlotKind = "image"
	SlotChart  SlotKind = "chart"
	SlotTable  SlotKind = "table"
)

// ExportStrategy tags how a slot should be emitted by the file writer.
type ExportStrategy string

const (
	ExportNative ExportStrategy = "native" // editable output element
	ExportImage  ExportStrategy = "image"  // rasterized
)

// BBox is an absolute pixel bounding box on the slide canvas.
// Invariant: once assigned by the layout engine it lies within
// (0,0)-(slideWidth,slideHeight).
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge coordinate.
func (b BBox) Right() float64 { return b.X + b.Width }

// Bottom returns the bottom edge coordinate.
func (b BBox) Bottom() float64 { return b.Y + b.Height }

// Intersects performs the axis-aligned rectangle overlap test.
func (b BBox) Intersects(o BBox) bool {
	return !(b.Right() <= o.X || o.Right() <= b.X ||
		b.Bottom() <= o.Y || o.Bottom() <= b.Y)
}

// Style holds the resolved visual style of a slot.
type Style struct {
	FontSize   float64 `json:"font_size,omitempty"`
	FontWeight string  `json:"font_weight,omitempty"`
	Color      string  `json:"color,omitempty"`
	Align      string  `json:"align,omitempty"`
}

// SlotContent is the closed sum of slot payloads. The five variants
// below are the only implementations; layout, verification and export
// switch exhaustively on Kind().
type SlotContent interface {
	Kind() SlotKind
}

// TextContent is a free-text block (titles, subtitles, column prose).
type TextContent struct {
	Text string `json:"text"`
}

func (TextContent) Kind() SlotKind { return SlotText }

// BulletContent is an ordered list of bullet items.
type BulletContent struct {
	Items []string `json:"items"`
}

func (BulletContent) Kind() SlotKind { return SlotBullet }

// ImageContent references a generated or looked-up asset.
type ImageContent struct {
	Prompt   string `json:"prompt,omitempty"`
	AssetRef string `json:"asset_ref,omitempty"`
	AltText  string `json:"alt_text,omitempty"`
}

func (ImageContent) Kind() SlotKind { return SlotImage }

// ChartSeries is one named data series of a chart slot.
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// ChartContent holds categorical chart data.
type ChartContent struct {
	ChartType  string        `json:"chart_type"` // bar, line, pie
	Categories []string      `json:"categories"`
	Series     []ChartSeries `json:"series"`
}

func (ChartContent) Kind() SlotKind { return SlotChart }

// TableContent holds a header row plus body rows.
type TableContent struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func (TableContent) Kind() SlotKind { return SlotTable }

// Slot is one content region of a slide. BBox is nil until the layout
// engine assigns it; Style is nil until typography is resolved.
type Slot struct {
	ID      string         `json:"id"`
	Content SlotContent    `json:"-"`
	BBox    *BBox          `json:"bbox,omitempty"`
	Style   *Style         `json:"style,omitempty"`
	Export  ExportStrategy `json:"export"`
}

// PlainText flattens the slot content to the text the overflow
// heuristic measures. Chart and image slots contribute no text volume.
func (s *Slot) PlainText() string {
	switch c := s.Content.(type) {
	case *TextContent:
		return c.Text
	case *BulletContent:
		out := ""
		for i, it := range c.Items {
			if i > 0 {
				out += "\n"
			}
			out += it
		}
		return out
	case *TableContent:
		out := ""
		for _, row := range append([][]string{c.Headers}, c.Rows...) {
			for _, cell := range row {
				out += cell
			}
		}
		return out
	default:
		return ""
	}
}

// slotEnvelope is the wire form of Slot: the kind discriminant plus a
// raw payload, so the sum type survives JSON round-trips (versioning,
// export, HTML preview all rely on this).
type slotEnvelope struct {
	ID      string          `json:"id"`
	Kind    SlotKind        `json:"kind"`
	Payload json.RawMessage `json:"payload"`
	BBox    *BBox           `json:"bbox,omitempty"`
	Style   *Style          `json:"style,omitempty"`
	Export  ExportStrategy  `json:"export"`
}

// MarshalJSON encodes the slot with its kind discriminant.
func (s *Slot) MarshalJSON() ([]byte, error) {
	env := slotEnvelope{
		ID:     s.ID,
		BBox:   s.BBox,
		Style:  s.Style,
		Export: s.Export,
	}
	if s.Content != nil {
		env.Kind = s.Content.Kind()
		payload, err := json.Marshal(s.Content)
		if err != nil {
			return nil, fmt.Errorf("marshal slot %s payload: %w", s.ID, err)
		}
		env.Payload = payload
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes the envelope and rehydrates the concrete
// content variant from the kind discriminant.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var env slotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	s.ID = env.ID
	s.BBox = env.BBox
	s.Style = env.Style
	s.Export = env.Export
	if len(env.Payload) == 0 {
		s.Content = nil
		return nil
	}
	content, err := decodeContent(env.Kind, env.Payload)
	if err != nil {
		return fmt.Errorf("slot %s: %w", env.ID, err)
	}
	s.Content = content
	return nil
}

func decodeContent(kind SlotKind, payload json.RawMessage) (SlotContent, error) {
	switch kind {
	case SlotText:
		c := &TextContent{}
		return c, json.Unmarshal(payload, c)
	case SlotBullet:
		c := &BulletContent{}
		return c, json.Unmarshal(payload, c)
	case SlotImage:
		c := &ImageContent{}
		return c, json.Unmarshal(payload, c)
	case SlotChart:
		c := &ChartContent{}
		return c, json.Unmarshal(payload, c)
	case SlotTable:
		c := &TableContent{}
		return c, json.Unmarshal(payload, c)
	default:
		return nil, fmt.Errorf("unknown slot kind %q", kind)
	}
}
