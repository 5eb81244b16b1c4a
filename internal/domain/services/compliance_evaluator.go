package services

import (
	"errors"
	"fmt"

	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// ErrNoRuleSet is returned when Evaluate is called without a snapshot.
var ErrNoRuleSet = errors.New("no rule set loaded")

// ComplianceEvaluator composes the matchers into one pass over an order.
type ComplianceEvaluator struct {
	allergens  *AllergenMatcher
	diet       *DietTextureChecker
	advisories *AdvisoryChecker
	aggregator *VerdictAggregator
}

// NewComplianceEvaluator creates an evaluator with the standard checks.
func NewComplianceEvaluator() *ComplianceEvaluator {
	return &ComplianceEvaluator{
		allergens:  NewAllergenMatcher(),
		diet:       NewDietTextureChecker(),
		advisories: NewAdvisoryChecker(),
		aggregator: NewVerdictAggregator(),
	}
}

// Evaluate checks every line of the order against the profile and the given
// rule snapshot. It never stops at the first blocked line. The only error it
// returns for valid wiring is a *entities.MalformedError for structurally
// invalid input; rule resolution problems become findings.
//
// The result depends only on its arguments: the same profile, order and
// snapshot always produce an identical result.
func (e *ComplianceEvaluator) Evaluate(profile *entities.DietaryProfile, order *entities.Order, snap *rules.Snapshot) (*evaluation.Result, error) {
	if snap == nil {
		return nil, ErrNoRuleSet
	}
	if err := entities.ValidateEvaluationInput(profile, order); err != nil {
		return nil, err
	}

	guard := NewFluidPortionGuard(profile, snap, order.FluidConsumedML)
	lines := make([]evaluation.LineResult, len(order.Lines))

	for i := range order.Lines {
		line := &order.Lines[i]
		findings := make([]evaluation.Finding, 0, 4)

		if line.Item.Unavailable {
			findings = append(findings, evaluation.Finding{
				Kind:    values.KindItemUnavailable,
				Class:   values.ClassBlock,
				Message: fmt.Sprintf("%s is not available", line.Item.DisplayName()),
				Source:  evaluation.RuleRef{Kind: rules.KindMenu, ID: line.Item.ID, Version: snap.SemVer().String()},
			})
		}
		findings = append(findings, e.allergens.Match(profile.Allergies, line.Item.AllergenTags, snap)...)
		findings = append(findings, e.diet.Check(profile, &line.Item, snap)...)
		findings = append(findings, guard.CheckFluid(line)...)
		findings = append(findings, guard.CheckPortion(&line.Item)...)
		findings = append(findings, e.advisories.Check(profile, line, snap)...)

		lines[i] = evaluation.LineResult{
			LineID:   line.ID,
			ItemID:   line.Item.ID,
			ItemName: line.Item.Name,
			Index:    i,
			Verdict:  e.aggregator.LineVerdict(findings),
			Findings: findings,
		}
	}

	return &evaluation.Result{
		ResidentID:     profile.ResidentID.String(),
		OrderID:        order.ID,
		RuleSetVersion: snap.Version(),
		Verdict:        e.aggregator.OrderVerdict(lines),
		Lines:          lines,
		Summary:        e.aggregator.Summarize(lines, guard.ChargedML()),
	}, nil
}
