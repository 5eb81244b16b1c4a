package entities

import (
	"fmt"
	"strings"

	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// MenuItem is a dish or drink as published by the menu.
type MenuItem struct {
	ID           string
	Name         string
	AllergenTags []string
	DietTags     []string
	// MinIDDSI is the coarsest texture the item can safely be prepared at.
	MinIDDSI values.IDDSILevel
	FluidML  int
	Category values.Category
	// PortionGrams overrides the category default portion when set.
	PortionGrams *int
	Unavailable  bool
}

// HasDietTag reports whether the item declares the given diet tag.
func (m *MenuItem) HasDietTag(tag string) bool {
	for _, t := range m.DietTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// DisplayName falls back to the ID when no name is set.
func (m *MenuItem) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

func (m *MenuItem) validate(prefix string, probs *problems) {
	if strings.TrimSpace(m.ID) == "" {
		probs.add(prefix, "menu item ID cannot be empty")
	}
	if err := m.MinIDDSI.Validate(); err != nil {
		probs.add(prefix, err.Error())
	}
	switch {
	case m.FluidML < 0:
		probs.add(prefix, fmt.Sprintf("fluid volume cannot be negative: %d", m.FluidML))
	case m.FluidML > MaxItemFluidML:
		probs.add(prefix, fmt.Sprintf("fluid volume %d mL exceeds the %d mL ceiling", m.FluidML, MaxItemFluidML))
	}
	if err := m.Category.Validate(); err != nil {
		probs.add(prefix, err.Error())
	}
	if m.PortionGrams != nil && *m.PortionGrams <= 0 {
		probs.add(prefix, fmt.Sprintf("portion must be positive: %d", *m.PortionGrams))
	}
	for _, tag := range m.AllergenTags {
		if strings.TrimSpace(tag) == "" {
			probs.add(prefix, "allergen tag cannot be empty")
		}
	}
}
