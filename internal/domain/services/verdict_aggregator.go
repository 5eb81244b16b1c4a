// Package services contains the domain services that check an order against
// a rule snapshot. They are stateless apart from FluidPortionGuard, which
// lives for a single evaluation.
package services

import (
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// VerdictAggregator folds findings into line verdicts and line verdicts into
// an order verdict.
type VerdictAggregator struct{}

// NewVerdictAggregator creates a new verdict aggregator
func NewVerdictAggregator() *VerdictAggregator {
	return &VerdictAggregator{}
}

// LineVerdict determines a line's verdict from its findings.
//
// Business Rule: BLOCKED if any finding is block-class, else
// ALLOWED_WITH_WARNING if any finding is warning-class, else ALLOWED.
// All block-class findings block equally.
func (a *VerdictAggregator) LineVerdict(findings []evaluation.Finding) values.Verdict {
	verdict := values.VerdictAllowed
	for i := range findings {
		v := findings[i].Class.Verdict()
		if v.Precedence() > verdict.Precedence() {
			verdict = v
		}
		if verdict.IsBlocked() {
			return verdict
		}
	}
	return verdict
}

// OrderVerdict determines the order verdict from its line verdicts.
// BLOCKED iff any line is BLOCKED.
func (a *VerdictAggregator) OrderVerdict(lines []evaluation.LineResult) values.Verdict {
	verdict := values.VerdictAllowed
	for i := range lines {
		if lines[i].Verdict.Precedence() > verdict.Precedence() {
			verdict = lines[i].Verdict
		}
	}
	return verdict
}

// Summarize counts line verdicts and findings.
func (a *VerdictAggregator) Summarize(lines []evaluation.LineResult, fluidChargedML int) evaluation.Summary {
	summary := evaluation.Summary{TotalLines: len(lines), FluidChargedML: fluidChargedML}
	for i := range lines {
		summary.TotalFindings += len(lines[i].Findings)
		switch lines[i].Verdict {
		case values.VerdictBlocked:
			summary.BlockedLines++
		case values.VerdictAllowedWithWarning:
			summary.WarningLines++
		case values.VerdictAllowed:
			summary.AllowedLines++
		}
	}
	return summary
}
