// Package reflection decides whether and how a slide gets repaired
// after verification: the policy gates another pass against the budget
// and threshold, the reflector classifies issues into repair actions,
// and the auto-fixes apply the purely local ones.
package reflection

import (
	"deckforge/internal/config"
	"deckforge/internal/ir"
)

// Policy applies the reflection budget and score threshold.
type Policy struct {
	cfg config.ReflectionConfig
}

// NewPolicy creates a policy.
func NewPolicy(cfg config.ReflectionConfig) *Policy {
	return &Policy{cfg: cfg}
}

// ShouldReflect reports whether another repair pass is warranted:
// budget remains AND (an error-severity issue exists OR the score is
// below threshold). Once the budget is exhausted this is always false,
// regardless of issues.
func (p *Policy) ShouldReflect(issues []ir.Issue, score float64, reflectionCount int) bool {
	if reflectionCount >= p.cfg.MaxReflections {
		return false
	}
	return ir.HasErrors(issues) || score < p.cfg.ScoreThreshold
}

// ShouldFinalizeWithWarnings reports whether an exhausted slide can
// settle as FINAL_WITH_WARNINGS: the budget is spent and no
// error-severity issues remain.
func (p *Policy) ShouldFinalizeWithWarnings(issues []ir.Issue, reflectionCount int) bool {
	return reflectionCount >= p.cfg.MaxReflections && !ir.HasErrors(issues)
}

// MaxReflections exposes the configured budget.
func (p *Policy) MaxReflections() int {
	return p.cfg.MaxReflections
}

// ScoreThreshold exposes the configured finalization threshold.
func (p *Policy) ScoreThreshold() float64 {
	return p.cfg.ScoreThreshold
}
