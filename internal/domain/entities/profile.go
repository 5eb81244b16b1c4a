// Package entities contains the records an evaluation reads: the resident's
// dietary profile, menu items and the order being checked.
package entities

import (
	"fmt"
	"strings"

	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// Allergy is one entry in a resident's allergy list.
// A hard restriction blocks any match regardless of severity.
type Allergy struct {
	Allergen        string
	Severity        values.AllergySeverity
	HardRestriction bool
}

// DietaryProfile is the read-only snapshot of a resident's dietary needs for
// one evaluation.
type DietaryProfile struct {
	ResidentID values.ResidentID
	DietType   string
	IDDSILevel values.IDDSILevel
	// FluidRestrictionML is the daily allowance; nil means unrestricted.
	FluidRestrictionML *int
	MealSize           values.MealSize
	Allergies          []Allergy
}

// IsFluidRestricted reports whether a fluid cap applies.
func (p *DietaryProfile) IsFluidRestricted() bool {
	return p.FluidRestrictionML != nil
}

// AllergenIDs returns the allergen identifiers in profile order.
func (p *DietaryProfile) AllergenIDs() []string {
	ids := make([]string, 0, len(p.Allergies))
	for _, a := range p.Allergies {
		ids = append(ids, a.Allergen)
	}
	return ids
}

// Validate checks the profile's structural invariants.
func (p *DietaryProfile) Validate() error {
	var probs problems
	p.validate(&probs)
	return probs.err()
}

func (p *DietaryProfile) validate(probs *problems) {
	if p.ResidentID.IsEmpty() {
		probs.add("profile", "resident ID cannot be empty")
	}
	if strings.TrimSpace(p.DietType) == "" {
		probs.add("profile", "diet type cannot be empty")
	}
	if err := p.IDDSILevel.Validate(); err != nil {
		probs.add("profile", err.Error())
	}
	if p.FluidRestrictionML != nil && *p.FluidRestrictionML < 0 {
		probs.add("profile", fmt.Sprintf("fluid restriction cannot be negative: %d", *p.FluidRestrictionML))
	}
	if err := p.MealSize.Validate(); err != nil {
		probs.add("profile", err.Error())
	}

	seen := make(map[string]bool, len(p.Allergies))
	for i, a := range p.Allergies {
		prefix := fmt.Sprintf("allergy %d", i)
		key := strings.ToLower(strings.TrimSpace(a.Allergen))
		if key == "" {
			probs.add(prefix, "allergen cannot be empty")
			continue
		}
		if !a.Severity.IsKnown() {
			probs.add(prefix, fmt.Sprintf("severity is required for %s", a.Allergen))
		}
		if seen[key] {
			probs.add(prefix, fmt.Sprintf("duplicate allergen %s", a.Allergen))
		}
		seen[key] = true
	}
}
