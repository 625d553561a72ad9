// Package planner turns a free-text brief into slide plans and turns
// each plan into drafted slot content. Both steps call the completion
// service and both degrade deterministically: a plan or a draft is
// always produced, even when the model fails outright.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"deckforge/internal/completion"
	"deckforge/internal/config"
	"deckforge/internal/ir"
	"deckforge/internal/logging"
)

const planSystemPrompt = `You are a presentation architect. Given a brief, produce a slide outline as a JSON array. Each element: {"title": string, "type": string, "goal": string}. Valid types: title, agenda, two_column, bullet, image, chart, table, section. The first slide should be a title slide. Respond with JSON only.`

// Planner produces deck outlines.
type Planner struct {
	client completion.Client
	cfg    config.CompletionConfig
}

// New creates a planner backed by the given completion client.
func New(client completion.Client, cfg config.CompletionConfig) *Planner {
	return &Planner{client: client, cfg: cfg}
}

// plannedSlide is the wire form the model is asked for.
type plannedSlide struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Goal  string `json:"goal"`
}

// Plan asks the model for an outline of slideCount slides. Malformed
// output, wrong counts and unknown slide types are repaired in place;
// a failing client yields the deterministic fallback plan. Plan never
// returns an empty result.
func (p *Planner) Plan(ctx context.Context, brief string, slideCount int) []ir.SlidePlan {
	if slideCount < 1 {
		slideCount = 1
	}
	if p.client == nil {
		return FallbackPlan(brief, slideCount)
	}

	prompt := fmt.Sprintf("Brief:\n%s\n\nPlan exactly %d slides.", brief, slideCount)
	resp, err := p.client.CompleteWithSystem(ctx, planSystemPrompt, prompt)
	if err != nil {
		logging.Planner("outline call failed, using fallback plan: %v", err)
		return FallbackPlan(brief, slideCount)
	}

	var raw []plannedSlide
	if err := completion.Decode(resp, &raw, p.cfg.RepairAttempts); err != nil || len(raw) == 0 {
		logging.Planner("outline not decodable, using fallback plan: %v", err)
		return FallbackPlan(brief, slideCount)
	}

	plans := make([]ir.SlidePlan, 0, len(raw))
	for _, r := range raw {
		st := ir.SlideType(r.Type)
		if !ir.ValidSlideType(st) {
			st = ir.SlideBullet
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = fmt.Sprintf("Slide %d", len(plans)+1)
		}
		plans = append(plans, ir.SlidePlan{
			ID:    uuid.NewString(),
			Title: title,
			Type:  st,
			Goal:  strings.TrimSpace(r.Goal),
		})
	}
	if len(plans) > slideCount {
		plans = plans[:slideCount]
	}
	logging.Planner("planned %d slides for brief %q", len(plans), truncate(brief, 60))
	return plans
}

// FallbackPlan is the deterministic outline used when the model cannot
// produce one: a title slide, an agenda when there is room, and bullet
// slides for the rest.
func FallbackPlan(brief string, slideCount int) []ir.SlidePlan {
	topic := strings.TrimSpace(brief)
	if topic == "" {
		topic = "Untitled Presentation"
	}
	topic = truncate(topic, 80)

	plans := make([]ir.SlidePlan, 0, slideCount)
	plans = append(plans, ir.SlidePlan{
		ID: uuid.NewString(), Title: topic, Type: ir.SlideTitle,
		Goal: "introduce the topic",
	})
	if slideCount >= 3 {
		plans = append(plans, ir.SlidePlan{
			ID: uuid.NewString(), Title: "Agenda", Type: ir.SlideAgenda,
			Goal: "preview the structure",
		})
	}
	for i := len(plans); i < slideCount; i++ {
		plans = append(plans, ir.SlidePlan{
			ID:    uuid.NewString(),
			Title: fmt.Sprintf("Topic %d", i),
			Type:  ir.SlideBullet,
			Goal:  "cover one aspect of the brief",
		})
	}
	return plans
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
