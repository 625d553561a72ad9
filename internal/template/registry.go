// Package template holds the static layout/theme reference data and
// the selection logic that binds a slide to a template, a deck to a
// theme, and a slide type to a background variant.
//
// The registry is an explicitly constructed, injected service; nothing
// here is process-global, so concurrent deck generations can hold
// independent (or shared, it is read-mostly) registries.
package template

import (
	"sync"

	"deckforge/internal/ir"
)

// SlotPlacement positions one slot on the 12-column grid. Zero min/max
// values mean unconstrained.
type SlotPlacement struct {
	ColumnStart int `yaml:"column_start" json:"column_start"`
	ColumnSpan  int `yaml:"column_span" json:"column_span"`
	RowStart    int `yaml:"row_start" json:"row_start"`
	RowSpan     int `yaml:"row_span" json:"row_span"`

	MinWidth  float64 `yaml:"min_width,omitempty" json:"min_width,omitempty"`
	MinHeight float64 `yaml:"min_height,omitempty" json:"min_height,omitempty"`
	MaxWidth  float64 `yaml:"max_width,omitempty" json:"max_width,omitempty"`
	MaxHeight float64 `yaml:"max_height,omitempty" json:"max_height,omitempty"`
}

// Template is a grid layout recipe for one slide type. An empty Slots
// map means "use the layout engine's fallback regions".
type Template struct {
	ID         string                   `yaml:"id" json:"id"`
	SlideType  ir.SlideType             `yaml:"slide_type" json:"slide_type"`
	Slots      map[string]SlotPlacement `yaml:"slots" json:"slots"`
	Typography map[string]ir.Style      `yaml:"typography,omitempty" json:"typography,omitempty"`
}

// BackgroundVariant is a CSS-like background descriptor tagged with
// tone keywords.
type BackgroundVariant struct {
	ID   string   `yaml:"id" json:"id"`
	Tags []string `yaml:"tags" json:"tags"`
	CSS  string   `yaml:"css" json:"css"`
}

// Theme bundles background variants per slide type under tone tags.
type Theme struct {
	ID       string                               `yaml:"id" json:"id"`
	Name     string                               `yaml:"name" json:"name"`
	Tags     []string                             `yaml:"tags" json:"tags"`
	Variants map[ir.SlideType][]BackgroundVariant `yaml:"variants" json:"variants"`
}

// DefaultTemplateID names the built-in catch-all template.
const DefaultTemplateID = "default"

// DefaultThemeID names the theme every failure path falls back to.
const DefaultThemeID = "minimal-light"

// DefaultVariantID is the hard-coded solid-white background used when
// a theme registers nothing for a slide type.
const DefaultVariantID = "solid-white"

// Registry stores templates and themes. Reads vastly outnumber writes
// (writes happen only at startup and on catalog hot-reload).
type Registry struct {
	mu        sync.RWMutex
	templates map[ir.SlideType][]*Template
	byID      map[string]*Template
	themes    []*Theme
	themeByID map[string]*Theme
}

// NewRegistry returns a registry pre-populated with the built-in
// catalog.
func NewRegistry() *Registry {
	r := &Registry{
		templates: make(map[ir.SlideType][]*Template),
		byID:      make(map[string]*Template),
		themeByID: make(map[string]*Theme),
	}
	for _, t := range builtinTemplates() {
		r.RegisterTemplate(t)
	}
	for _, th := range builtinThemes() {
		r.RegisterTheme(th)
	}
	return r
}

// RegisterTemplate adds or replaces a template. Replacement is by ID.
func (r *Registry) RegisterTemplate(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byID[t.ID]; ok {
		list := r.templates[old.SlideType]
		for i, e := range list {
			if e.ID == t.ID {
				r.templates[old.SlideType] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	r.byID[t.ID] = t
	r.templates[t.SlideType] = append(r.templates[t.SlideType], t)
}

// RegisterTheme adds or replaces a theme by ID.
func (r *Registry) RegisterTheme(th *Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.themeByID[th.ID]; ok {
		for i, e := range r.themes {
			if e.ID == th.ID {
				r.themes[i] = th
				r.themeByID[th.ID] = th
				return
			}
		}
	}
	r.themes = append(r.themes, th)
	r.themeByID[th.ID] = th
}

// TemplateByID looks up a template by exact id.
func (r *Registry) TemplateByID(id string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	return t, ok
}

// TemplatesFor returns the registered templates for a slide type, in
// registration order.
func (r *Registry) TemplatesFor(st ir.SlideType) []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates[st]
}

// ThemeByID looks up a theme by exact id.
func (r *Registry) ThemeByID(id string) (*Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	th, ok := r.themeByID[id]
	return th, ok
}

// Themes returns all registered themes in registration order.
func (r *Registry) Themes() []*Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Theme, len(r.themes))
	copy(out, r.themes)
	return out
}
