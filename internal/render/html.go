// Package render produces deterministic HTML from slide IR. The same
// renderer feeds three consumers: the preview stage, the headless DOM
// verifier, and the HTML export writer.
package render

import (
	"fmt"
	htmltemplate "html/template"
	"sort"
	"strings"

	"deckforge/internal/ir"
)

var slideTmpl = htmltemplate.Must(htmltemplate.New("slide").Parse(`<div class="slide" data-slide-id="{{.ID}}" style="position:relative;width:{{.Width}}px;height:{{.Height}}px;{{.Background}}overflow:hidden;">
{{- range .Slots}}
  <div class="slot" data-slot-id="{{.ID}}" style="position:absolute;left:{{.X}}px;top:{{.Y}}px;width:{{.W}}px;height:{{.H}}px;overflow:hidden;{{.Font}}">{{.Body}}</div>
{{- end}}
</div>`))

var pageTmpl = htmltemplate.Must(htmltemplate.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; font-family: "Helvetica Neue", "PingFang SC", "Noto Sans CJK SC", sans-serif; background: #e8e8e8; }
.slide { margin: 24px auto; background: #ffffff; box-shadow: 0 2px 12px rgba(0,0,0,0.15); }
.slot ul { margin: 0; padding-left: 1.2em; }
.slot table { border-collapse: collapse; width: 100%; }
.slot td, .slot th { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
</style>
</head>
<body>
{{- range .Slides}}
{{.}}
{{- end}}
</body>
</html>`))

type slotView struct {
	ID         string
	X, Y, W, H float64
	Font       htmltemplate.CSS
	Body       htmltemplate.HTML
}

type slideView struct {
	ID         string
	Width      float64
	Height     float64
	Background htmltemplate.CSS
	Slots      []slotView
}

// SlideHTML renders one laid-out slide as a standalone fragment.
// backgroundCSS is the selected variant's descriptor ("" for plain).
// Slots without a bbox are omitted: they are not renderable yet.
func SlideHTML(slide *ir.Slide, backgroundCSS string, width, height float64) (string, error) {
	view := slideView{
		ID:         slide.ID,
		Width:      width,
		Height:     height,
		Background: htmltemplate.CSS(normalizeCSS(backgroundCSS)),
	}
	for _, id := range sortedSlotIDs(slide) {
		slot := slide.Slots[id]
		if slot.BBox == nil {
			continue
		}
		view.Slots = append(view.Slots, slotView{
			ID:   slot.ID,
			X:    slot.BBox.X,
			Y:    slot.BBox.Y,
			W:    slot.BBox.Width,
			H:    slot.BBox.Height,
			Font: htmltemplate.CSS(fontCSS(slot.Style)),
			Body: contentHTML(slot),
		})
	}
	var b strings.Builder
	if err := slideTmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render slide %s: %w", slide.ID, err)
	}
	return b.String(), nil
}

// DeckHTML renders the whole deck as one self-contained page.
// backgrounds maps slide type to the deck's chosen variant CSS.
func DeckHTML(deck *ir.Deck, backgrounds map[ir.SlideType]string, width, height float64) (string, error) {
	var slides []htmltemplate.HTML
	for _, slide := range deck.Slides {
		html, err := SlideHTML(slide, backgrounds[slide.Type], width, height)
		if err != nil {
			return "", err
		}
		slides = append(slides, htmltemplate.HTML(html))
	}
	var b strings.Builder
	err := pageTmpl.Execute(&b, struct {
		Title  string
		Slides []htmltemplate.HTML
	}{Title: deck.Title, Slides: slides})
	if err != nil {
		return "", fmt.Errorf("render deck %s: %w", deck.ID, err)
	}
	return b.String(), nil
}

// contentHTML renders the slot payload. The switch is exhaustive over
// the closed content sum; a new slot kind fails loudly here.
func contentHTML(slot *ir.Slot) htmltemplate.HTML {
	esc := htmltemplate.HTMLEscapeString
	switch c := slot.Content.(type) {
	case *ir.TextContent:
		return htmltemplate.HTML("<div>" + esc(c.Text) + "</div>")
	case *ir.BulletContent:
		var b strings.Builder
		b.WriteString("<ul>")
		for _, item := range c.Items {
			b.WriteString("<li>" + esc(item) + "</li>")
		}
		b.WriteString("</ul>")
		return htmltemplate.HTML(b.String())
	case *ir.ImageContent:
		ref := c.AssetRef
		if ref == "" {
			ref = "about:blank"
		}
		return htmltemplate.HTML(fmt.Sprintf(
			`<img src="%s" alt="%s" style="width:100%%;height:100%%;object-fit:cover;">`,
			esc(ref), esc(c.AltText)))
	case *ir.ChartContent:
		// Chart slots export as images; the preview shows a labeled
		// placeholder with the series legend.
		var b strings.Builder
		b.WriteString(`<div style="width:100%;height:100%;display:flex;align-items:center;justify-content:center;background:#f0f3f7;">`)
		b.WriteString("<div>" + esc(c.ChartType) + " chart")
		for _, s := range c.Series {
			b.WriteString("<br>" + esc(s.Name))
		}
		b.WriteString("</div></div>")
		return htmltemplate.HTML(b.String())
	case *ir.TableContent:
		var b strings.Builder
		b.WriteString("<table><tr>")
		for _, h := range c.Headers {
			b.WriteString("<th>" + esc(h) + "</th>")
		}
		b.WriteString("</tr>")
		for _, row := range c.Rows {
			b.WriteString("<tr>")
			for _, cell := range row {
				b.WriteString("<td>" + esc(cell) + "</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</table>")
		return htmltemplate.HTML(b.String())
	default:
		return ""
	}
}

func fontCSS(style *ir.Style) string {
	if style == nil {
		return ""
	}
	var b strings.Builder
	if style.FontSize > 0 {
		fmt.Fprintf(&b, "font-size:%gpx;", style.FontSize)
	}
	if style.FontWeight != "" {
		fmt.Fprintf(&b, "font-weight:%s;", style.FontWeight)
	}
	if style.Color != "" {
		fmt.Fprintf(&b, "color:%s;", style.Color)
	}
	if style.Align != "" {
		fmt.Fprintf(&b, "text-align:%s;", style.Align)
	}
	return b.String()
}

func normalizeCSS(css string) string {
	css = strings.TrimSpace(css)
	if css == "" {
		return ""
	}
	if !strings.HasSuffix(css, ";") {
		css += ";"
	}
	return css
}

func sortedSlotIDs(slide *ir.Slide) []string {
	ids := make([]string, 0, len(slide.Slots))
	for id := range slide.Slots {
		ids = append(ids, id)
	}
	// Stable render order keeps output diffable across runs.
	sort.Strings(ids)
	return ids
}
