package services

import (
	"fmt"

	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// AdvisoryChecker runs the rule set's advisory expressions. Advisories only
// ever warn; an expression that fails at runtime is reported as a warning too.
type AdvisoryChecker struct{}

// NewAdvisoryChecker creates a new advisory checker
func NewAdvisoryChecker() *AdvisoryChecker {
	return &AdvisoryChecker{}
}

// Check evaluates every advisory against one order line.
func (c *AdvisoryChecker) Check(profile *entities.DietaryProfile, line *entities.OrderLine, snap *rules.Snapshot) []evaluation.Finding {
	advisories := snap.Advisories()
	if len(advisories) == 0 {
		return nil
	}

	env := NewLineEnv(profile, line, snap)
	var findings []evaluation.Finding
	for _, adv := range advisories {
		matched, err := adv.Matches(env)
		msg := adv.Message
		switch {
		case err != nil:
			msg = fmt.Sprintf("advisory %s could not be evaluated: %v", adv.ID, err)
		case !matched:
			continue
		}
		findings = append(findings, evaluation.Finding{
			Kind:    values.KindAdvisory,
			Class:   values.ClassWarn,
			Message: msg,
			Source:  evaluation.RuleRef{Kind: rules.KindAdvisory, ID: adv.ID, Version: adv.Version},
		})
	}
	return findings
}

// NewLineEnv builds the expression environment for one order line.
func NewLineEnv(profile *entities.DietaryProfile, line *entities.OrderLine, snap *rules.Snapshot) rules.LineEnv {
	item := &line.Item

	resident := rules.ResidentEnv{
		ID:              profile.ResidentID.String(),
		Diet:            rules.NormalizeID(profile.DietType),
		IDDSI:           profile.IDDSILevel.Ordinal(),
		MealSize:        profile.MealSize.String(),
		FluidRestricted: profile.IsFluidRestricted(),
		Allergens:       make([]string, 0, len(profile.Allergies)),
	}
	if profile.FluidRestrictionML != nil {
		resident.FluidRestrictionML = *profile.FluidRestrictionML
	}
	for _, a := range profile.Allergies {
		resident.Allergens = append(resident.Allergens, canonicalAllergen(a.Allergen, snap))
	}

	portion := 0
	if grams, _, ok := snap.PortionFor(profile.MealSize, item.Category, item.PortionGrams); ok {
		portion = grams
	} else if item.PortionGrams != nil {
		portion = *item.PortionGrams
	}

	env := rules.LineEnv{
		Resident: resident,
		Item: rules.ItemEnv{
			ID:           item.ID,
			Name:         item.Name,
			Category:     item.Category.String(),
			FluidML:      item.FluidML,
			PortionGrams: portion,
			MinIDDSI:     item.MinIDDSI.Ordinal(),
			Allergens:    make([]string, 0, len(item.AllergenTags)),
			Diets:        make([]string, 0, len(item.DietTags)),
		},
		Quantity: line.Units(),
		Note:     line.Note,
	}
	for _, tag := range item.AllergenTags {
		env.Item.Allergens = append(env.Item.Allergens, canonicalAllergen(tag, snap))
	}
	for _, tag := range item.DietTags {
		env.Item.Diets = append(env.Item.Diets, rules.NormalizeID(tag))
	}
	return env
}

func canonicalAllergen(id string, snap *rules.Snapshot) string {
	if rule, err := snap.ResolveAllergen(id); err == nil {
		return rule.ID
	}
	return rules.NormalizeID(id)
}
