package services

import (
	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func rulesAt(version string) *rules.Snapshot {
	return rules.MustCompile(rules.Definition{
		Version: version,
		DietTypes: []rules.DietTypeRule{
			{ID: "regular", Accepts: []string{"vegetarian"}, AcceptsUntagged: true},
			{ID: "vegetarian"},
		},
		IDDSILevels: []rules.IDDSIRule{{Level: 0}, {Level: 4}, {Level: 7}},
		Allergens: []rules.AllergenRule{
			{ID: "shellfish", Subsumes: []string{"shrimp"}},
			{ID: "shrimp", Aliases: []string{"prawn"}},
			{ID: "peanut"},
		},
	})
}

func evaluatorPrincipal() dto.RequestMetadata {
	return dto.RequestMetadata{
		RequestID: "req-1",
		Principal: dto.Principal{Subject: "nurse-1", Roles: []string{dto.RoleEvaluator}},
	}
}

func adminMetadata() dto.RequestMetadata {
	return dto.RequestMetadata{
		RequestID: "req-admin",
		Principal: dto.Principal{Subject: "ops", Roles: []string{dto.RoleAdmin}},
	}
}

// shellfishRequest orders a prawn dish and a lemonade for a resident with a
// shellfish allergy and a 300 ml fluid limit.
func shellfishRequest() dto.EvaluateOrderRequest {
	return dto.EvaluateOrderRequest{
		Profile: dto.ProfileDocument{
			ResidentID:         "res-1",
			DietType:           "regular",
			IDDSILevel:         intPtr(7),
			FluidRestrictionML: intPtr(300),
			Allergies: []dto.AllergyDocument{
				{Allergen: "shellfish", Severity: "anaphylaxis"},
			},
		},
		Order: dto.OrderDocument{
			ID: "ord-1",
			Lines: []dto.OrderLineDocument{
				{ID: "l1", ItemID: "prawn-curry"},
				{ID: "l2", ItemID: "lemonade"},
			},
		},
		Menu: &dto.MenuDocument{Items: []dto.MenuItemDocument{
			{ID: "prawn-curry", Name: "Prawn curry", Allergens: []string{"prawn"}, Category: "main"},
			{ID: "lemonade", Name: "Lemonade", FluidML: 250, Category: "beverage", MinIDDSI: intPtr(0)},
		}},
		Metadata: evaluatorPrincipal(),
	}
}
