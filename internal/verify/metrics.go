package verify

import (
	"unicode/utf8"

	"deckforge/internal/config"
	"deckforge/internal/ir"
)

// ComputeMetrics derives the quality measurement set from a slide and
// the issues of the current verification pass.
func (v *Verifier) ComputeMetrics(slide *ir.Slide, issues []ir.Issue) ir.QualityMetrics {
	m := ir.QualityMetrics{
		// No observed font data means no penalty; the configured
		// minimum is the neutral value.
		MinFontSize: v.cfg.MinFontSize,
	}

	for _, is := range issues {
		switch is.Type {
		case ir.IssueOverflow, ir.IssueDOMOverflow:
			m.OverflowCount++
		case ir.IssueOverlap:
			m.OverlapCount++
		case ir.IssueMarginViolation:
			m.MarginViolations++
		}
	}

	fontSeen := false
	native := 0
	total := 0
	for _, slot := range slide.Slots {
		total++
		if slot.Export == ir.ExportNative {
			native++
		}
		m.TextVolume += utf8.RuneCountInString(slot.PlainText())
		if slot.Style != nil && slot.Style.FontSize > 0 {
			if !fontSeen || slot.Style.FontSize < m.MinFontSize {
				m.MinFontSize = slot.Style.FontSize
			}
			fontSeen = true
		}
	}
	if total > 0 {
		m.NativeRatio = float64(native) / float64(total)
	}
	return m
}

// Score converts metrics into a quality score in [0,100]. Pure and
// deterministic: identical metrics always yield the identical score.
func Score(m ir.QualityMetrics, cfg config.VerificationConfig) float64 {
	score := 100.0
	score -= float64(m.OverflowCount) * cfg.OverflowPenalty
	score -= float64(m.OverlapCount) * cfg.OverlapPenalty
	score -= float64(m.MarginViolations) * cfg.MarginPenalty
	if m.MinFontSize < cfg.MinFontSize {
		score -= cfg.SmallFontPenalty
	}
	if m.TextVolume > cfg.LargeTextThreshold {
		score -= cfg.VolumePenalty
	}
	if m.NativeRatio >= cfg.NativeRatioTarget {
		score += cfg.NativeBonus
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
