package template

import (
	"context"
	"fmt"
	"strings"

	"deckforge/internal/completion"
	"deckforge/internal/ir"
	"deckforge/internal/logging"
)

// SelectTemplate resolves the layout template for a slide. Preference
// order: exact preferredID match, first registered template for the
// slide type, built-in default. Never returns nil.
func (r *Registry) SelectTemplate(st ir.SlideType, preferredID string) *Template {
	if preferredID != "" {
		if t, ok := r.TemplateByID(preferredID); ok {
			return t
		}
		logging.Layout("preferred template %q not registered, falling back", preferredID)
	}
	if list := r.TemplatesFor(st); len(list) > 0 {
		return list[0]
	}
	if t, ok := r.TemplateByID(DefaultTemplateID); ok {
		return t
	}
	// Registry constructed without built-ins; still never nil.
	return &Template{ID: DefaultTemplateID, Slots: map[string]SlotPlacement{}}
}

// ThemeRequest carries the inputs theme selection considers.
type ThemeRequest struct {
	Brief    string
	Goal     string
	Audience string
	Tone     []string
}

type themeChoice struct {
	ThemeID string `json:"theme_id"`
	Reason  string `json:"reason"`
}

const themeSystemPrompt = `You are a presentation art director. Pick the single best theme for the deck from the catalog. Respond with JSON only: {"theme_id": "...", "reason": "..."}`

// SelectTheme asks the Completion Service to pick among the registered
// themes. Any failure, or an unknown id in the reply, falls back to
// the default theme deterministically; theme selection never blocks
// deck generation.
func (r *Registry) SelectTheme(ctx context.Context, client completion.Client, req ThemeRequest) *Theme {
	fallback := r.fallbackTheme()
	if client == nil {
		return fallback
	}

	var catalog strings.Builder
	for _, th := range r.Themes() {
		fmt.Fprintf(&catalog, "- %s: %s (tags: %s)\n", th.ID, th.Name, strings.Join(th.Tags, ", "))
	}
	user := fmt.Sprintf("Brief: %s\nGoal: %s\nAudience: %s\nTone: %s\n\nTheme catalog:\n%s",
		req.Brief, req.Goal, req.Audience, strings.Join(req.Tone, ", "), catalog.String())

	resp, err := client.CompleteWithSystem(ctx, themeSystemPrompt, user)
	if err != nil {
		logging.Layout("theme selection call failed, using %s: %v", fallback.ID, err)
		return fallback
	}
	var choice themeChoice
	if err := completion.Decode(resp, &choice, 3); err != nil {
		logging.Layout("theme selection reply unparseable, using %s: %v", fallback.ID, err)
		return fallback
	}
	th, ok := r.ThemeByID(choice.ThemeID)
	if !ok {
		logging.Layout("theme selection returned unknown id %q, using %s", choice.ThemeID, fallback.ID)
		return fallback
	}
	return th
}

func (r *Registry) fallbackTheme() *Theme {
	if th, ok := r.ThemeByID(DefaultThemeID); ok {
		return th
	}
	if all := r.Themes(); len(all) > 0 {
		return all[0]
	}
	return &Theme{ID: DefaultThemeID, Name: "Minimal Light"}
}

// SelectVariant picks a background variant for a slide type: first a
// variant whose tags intersect toneTags, else the first registered
// variant for the type, else the solid-white default.
func SelectVariant(theme *Theme, st ir.SlideType, toneTags []string) string {
	if theme == nil {
		return DefaultVariantID
	}
	variants := theme.Variants[st]
	if len(variants) == 0 {
		return DefaultVariantID
	}
	for _, v := range variants {
		if tagsIntersect(v.Tags, toneTags) {
			return v.ID
		}
	}
	return variants[0].ID
}

func tagsIntersect(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}
