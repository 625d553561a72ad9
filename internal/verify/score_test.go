package verify

import (
	"math/rand"
	"testing"

	"deckforge/internal/config"
	"deckforge/internal/ir"
)

func TestScoreWeights(t *testing.T) {
	cfg := config.DefaultVerificationConfig()
	clean := ir.QualityMetrics{MinFontSize: 20, TextVolume: 100, NativeRatio: 0}

	cases := []struct {
		name   string
		mutate func(*ir.QualityMetrics)
		want   float64
	}{
		{"clean", func(m *ir.QualityMetrics) {}, 100},
		{"one_overflow", func(m *ir.QualityMetrics) { m.OverflowCount = 1 }, 85},
		{"one_overlap", func(m *ir.QualityMetrics) { m.OverlapCount = 1 }, 80},
		{"one_margin", func(m *ir.QualityMetrics) { m.MarginViolations = 1 }, 97},
		{"small_font", func(m *ir.QualityMetrics) { m.MinFontSize = 10 }, 92},
		{"large_volume", func(m *ir.QualityMetrics) { m.TextVolume = 900 }, 95},
		{"native_bonus_clamped", func(m *ir.QualityMetrics) { m.NativeRatio = 0.8 }, 100},
		{"everything_bad_clamps_to_zero", func(m *ir.QualityMetrics) {
			m.OverflowCount = 5
			m.OverlapCount = 3
			m.MinFontSize = 8
		}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := clean
			tc.mutate(&m)
			if got := Score(m, cfg); got != tc.want {
				t.Fatalf("Score = %g, want %g", got, tc.want)
			}
		})
	}
}

func TestScoreDeterministicAndBounded(t *testing.T) {
	cfg := config.DefaultVerificationConfig()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		m := ir.QualityMetrics{
			OverflowCount:    rng.Intn(10),
			OverlapCount:     rng.Intn(10),
			MarginViolations: rng.Intn(10),
			MinFontSize:      float64(rng.Intn(40)),
			TextVolume:       rng.Intn(3000),
			NativeRatio:      rng.Float64(),
		}
		a := Score(m, cfg)
		b := Score(m, cfg)
		if a != b {
			t.Fatalf("Score not deterministic for %+v: %g vs %g", m, a, b)
		}
		if a < 0 || a > 100 {
			t.Fatalf("Score out of range for %+v: %g", m, a)
		}
	}
}

func TestScoreMonotonicInViolationCounts(t *testing.T) {
	cfg := config.DefaultVerificationConfig()
	base := ir.QualityMetrics{MinFontSize: 20, TextVolume: 100, NativeRatio: 0.9}

	bump := []struct {
		name   string
		mutate func(*ir.QualityMetrics)
	}{
		{"overflow", func(m *ir.QualityMetrics) { m.OverflowCount++ }},
		{"overlap", func(m *ir.QualityMetrics) { m.OverlapCount++ }},
		{"margin", func(m *ir.QualityMetrics) { m.MarginViolations++ }},
	}
	for _, tc := range bump {
		t.Run(tc.name, func(t *testing.T) {
			m := base
			prev := Score(m, cfg)
			for i := 0; i < 12; i++ {
				tc.mutate(&m)
				cur := Score(m, cfg)
				if cur > prev {
					t.Fatalf("score increased with more %s violations: %g -> %g", tc.name, prev, cur)
				}
				prev = cur
			}
		})
	}
}

func TestComputeMetrics(t *testing.T) {
	v := newVerifier()
	slide := &ir.Slide{
		ID:   "s",
		Type: ir.SlideBullet,
		Slots: map[string]*ir.Slot{
			"title": {ID: "title", Content: &ir.TextContent{Text: "Hello"},
				Style: &ir.Style{FontSize: 32}, Export: ir.ExportNative},
			"body": {ID: "body", Content: &ir.BulletContent{Items: []string{"ab", "cd"}},
				Style: &ir.Style{FontSize: 12}, Export: ir.ExportNative},
			"chart": {ID: "chart", Content: &ir.ChartContent{ChartType: "bar"}, Export: ir.ExportImage},
		},
	}
	issues := []ir.Issue{
		{Severity: ir.SeverityError, Type: ir.IssueOverflow, SlotID: "body"},
		{Severity: ir.SeverityError, Type: ir.IssueOverlap, SlotID: "body"},
		{Severity: ir.SeverityWarning, Type: ir.IssueMarginViolation, SlotID: "title"},
		{Severity: ir.SeverityError, Type: ir.IssueDOMOverflow, SlotID: "body"},
	}

	m := v.ComputeMetrics(slide, issues)
	if m.OverflowCount != 2 { // heuristic + DOM
		t.Fatalf("OverflowCount = %d, want 2", m.OverflowCount)
	}
	if m.OverlapCount != 1 || m.MarginViolations != 1 {
		t.Fatalf("counts wrong: %+v", m)
	}
	if m.MinFontSize != 12 {
		t.Fatalf("MinFontSize = %g, want 12", m.MinFontSize)
	}
	// "Hello" (5) + "ab"+"cd" (4, joined with newline = 5)
	if m.TextVolume != 10 {
		t.Fatalf("TextVolume = %d, want 10", m.TextVolume)
	}
	if m.NativeRatio < 0.66 || m.NativeRatio > 0.67 {
		t.Fatalf("NativeRatio = %g, want 2/3", m.NativeRatio)
	}
}

func TestComputeMetricsNoFontsIsNeutral(t *testing.T) {
	v := newVerifier()
	slide := &ir.Slide{ID: "s", Slots: map[string]*ir.Slot{
		"a": {ID: "a", Content: &ir.TextContent{Text: "x"}, Export: ir.ExportNative},
	}}
	m := v.ComputeMetrics(slide, nil)
	cfg := config.DefaultVerificationConfig()
	if m.MinFontSize != cfg.MinFontSize {
		t.Fatalf("MinFontSize = %g, want neutral %g", m.MinFontSize, cfg.MinFontSize)
	}
	// 100 plus the native bonus, clamped back to 100.
	if got := Score(m, cfg); got != 100 {
		t.Fatalf("score = %g, want 100", got)
	}
}
