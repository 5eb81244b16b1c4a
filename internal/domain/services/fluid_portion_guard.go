package services

import (
	"fmt"
	"math"

	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// FluidRuleID names the fluid restriction in finding sources.
const FluidRuleID = "daily_fluid_restriction"

// FluidPortionGuard tracks fluid across the lines of one order and checks
// portions against the resident's meal size. A guard belongs to a single
// evaluation call and must not be shared.
type FluidPortionGuard struct {
	profile *entities.DietaryProfile
	snap    *rules.Snapshot
	charged int
}

// NewFluidPortionGuard starts a running total at consumedML, the fluid the
// resident has already taken against today's allowance.
func NewFluidPortionGuard(profile *entities.DietaryProfile, snap *rules.Snapshot, consumedML int) *FluidPortionGuard {
	return &FluidPortionGuard{profile: profile, snap: snap, charged: consumedML}
}

// ChargedML returns the running fluid total.
func (g *FluidPortionGuard) ChargedML() int {
	return g.charged
}

// CheckFluid charges the line's fluid against the restriction.
//
// Business Rule: first-exceeds-wins. The line whose volume would push the
// running total over the cap is blocked and is not charged; earlier lines are
// never revisited. Lines blocked for other reasons are still charged.
func (g *FluidPortionGuard) CheckFluid(line *entities.OrderLine) []evaluation.Finding {
	volume := line.FluidML()
	if volume == 0 {
		return nil
	}
	if !g.profile.IsFluidRestricted() {
		g.charge(volume)
		return nil
	}

	// Compared without adding so oversized inputs cannot wrap past the cap.
	limit := *g.profile.FluidRestrictionML
	if g.charged <= limit && volume <= limit-g.charged {
		g.charged += volume
		return nil
	}

	remaining := max(limit-g.charged, 0)
	return []evaluation.Finding{{
		Kind:  values.KindFluidLimitExceeded,
		Class: values.ClassBlock,
		Message: fmt.Sprintf("adds %d mL but only %d mL of the %d mL daily fluid allowance remains",
			volume, remaining, limit),
		Source:      evaluation.RuleRef{Kind: rules.KindFluid, ID: FluidRuleID, Version: g.snap.SemVer().String()},
		RemainingML: &remaining,
	}}
}

// charge adds volume to the running total, saturating at math.MaxInt.
func (g *FluidPortionGuard) charge(volume int) {
	if volume > math.MaxInt-g.charged {
		g.charged = math.MaxInt
		return
	}
	g.charged += volume
}

// CheckPortion compares the item's portion with the meal size policy. A
// mismatch is only ever a warning. No policy for the pair means no check.
func (g *FluidPortionGuard) CheckPortion(item *entities.MenuItem) []evaluation.Finding {
	size := g.profile.MealSize
	grams, rng, ok := g.snap.PortionFor(size, item.Category, item.PortionGrams)
	if !ok || rng.Contains(grams) {
		return nil
	}

	bounds := fmt.Sprintf("%d-%d g", rng.Min, rng.Max)
	if rng.Max == 0 {
		bounds = fmt.Sprintf("at least %d g", rng.Min)
	}
	return []evaluation.Finding{{
		Kind:  values.KindPortionMismatch,
		Class: values.ClassWarn,
		Message: fmt.Sprintf("%s portion of %d g is outside the %s meal range for %s (%s)",
			item.DisplayName(), grams, size, item.Category, bounds),
		Source: evaluation.RuleRef{
			Kind:    rules.KindPortion,
			ID:      size.String() + "/" + item.Category.String(),
			Version: g.snap.PortionVersion(),
		},
	}}
}
