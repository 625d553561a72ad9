package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"deckforge/internal/ir"
	"deckforge/internal/orchestrator"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	stageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func renderOutline(plans []ir.SlidePlan) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Outline (%d slides)", len(plans))))
	for i, p := range plans {
		b.WriteString(fmt.Sprintf("\n  %2d. [%-10s] %s", i+1, p.Type, p.Title))
	}
	return b.String()
}

func renderEvent(ev orchestrator.Event) string {
	switch ev.Type {
	case orchestrator.EventSlideStage:
		return stageStyle.Render(fmt.Sprintf("  %s -> %s", ev.SlideID, ev.Stage))
	case orchestrator.EventSlideIssues:
		return warnStyle.Render(fmt.Sprintf("  %s: %d issue(s), score %.0f",
			ev.SlideID, len(ev.Issues), scoreOf(ev)))
	case orchestrator.EventSlideFinalized:
		style := okStyle
		if ev.Stage == ir.StageFinalWithWarnings {
			style = warnStyle
		}
		return style.Render(fmt.Sprintf("  %s %s (score %.0f)", ev.SlideID, ev.Stage, scoreOf(ev)))
	case orchestrator.EventJobError:
		return errStyle.Render(fmt.Sprintf("  %s failed: %s", ev.SlideID, ev.Error))
	case orchestrator.EventJobStopped:
		return errStyle.Render("  stop requested")
	case orchestrator.EventJobSummary:
		return "" // rendered separately after Generate returns
	default:
		return stageStyle.Render(fmt.Sprintf("  %s %s", ev.Type, ev.SlideID))
	}
}

func renderSummary(s *orchestrator.Summary) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Deck " + s.DeckID))
	b.WriteString(fmt.Sprintf("\n  %s", okStyle.Render(fmt.Sprintf("%d finalized", s.Finalized))))
	if s.Warnings > 0 {
		b.WriteString(fmt.Sprintf(", %s", warnStyle.Render(fmt.Sprintf("%d with warnings", s.Warnings))))
	}
	if s.Errored > 0 {
		b.WriteString(fmt.Sprintf(", %s", errStyle.Render(fmt.Sprintf("%d errored", s.Errored))))
	}
	if s.Stopped > 0 {
		b.WriteString(fmt.Sprintf(", %s", errStyle.Render(fmt.Sprintf("%d stopped", s.Stopped))))
	}
	if len(s.Omitted) > 0 {
		b.WriteString("\n  omitted from deck: " + strings.Join(s.Omitted, ", "))
	}
	if s.VersionID != "" {
		b.WriteString("\n  snapshot " + s.VersionID)
	}
	return b.String()
}

func scoreOf(ev orchestrator.Event) float64 {
	if ev.Score != nil {
		return *ev.Score
	}
	return 0
}
