package services

import (
	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

func intPtr(v int) *int { return &v }

func testSnapshot() *rules.Snapshot {
	return rules.MustCompile(rules.Definition{
		Version: "1.0.0",
		DietTypes: []rules.DietTypeRule{
			{ID: "regular", Accepts: []string{"vegetarian", "vegan", "diabetic", "low_sodium"}, AcceptsUntagged: true},
			{ID: "vegetarian", Accepts: []string{"vegan"}},
			{ID: "vegan"},
			{ID: "diabetic"},
			{ID: "low_sodium"},
		},
		IDDSILevels: []rules.IDDSIRule{
			{Level: 0}, {Level: 1}, {Level: 2}, {Level: 3}, {Level: 4}, {Level: 5}, {Level: 6}, {Level: 7},
		},
		Allergens: []rules.AllergenRule{
			{ID: "shellfish", Subsumes: []string{"shrimp", "crab"}},
			{ID: "shrimp", Subsumes: []string{"tiger_shrimp"}, Aliases: []string{"prawn"}},
			{ID: "tiger_shrimp"},
			{ID: "crab"},
			{ID: "peanut"},
			{ID: "milk", Aliases: []string{"dairy"}},
			{ID: "gluten"},
		},
		Portions: rules.PortionPolicy{
			Defaults: map[string]int{"main": 350, "soup": 250, "dessert": 120},
			Limits: map[string]map[string]rules.PortionRange{
				"small":   {"main": {Min: 150, Max: 250}, "dessert": {Min: 60, Max: 100}},
				"regular": {"main": {Min: 250, Max: 400}},
			},
		},
		Advisories: []rules.Advisory{
			{ID: "diabetic-dessert", When: `resident.diet == "diabetic" && item.category == "dessert"`, Message: "confirm sugar-free preparation"},
		},
	})
}

func regularProfile() *entities.DietaryProfile {
	return &entities.DietaryProfile{
		ResidentID: values.MustNewResidentID("res-1"),
		DietType:   "regular",
		IDDSILevel: values.IDDSIRegular,
		MealSize:   values.MealSizeRegular,
	}
}

func beverage(id string, ml int) entities.MenuItem {
	return entities.MenuItem{ID: id, Name: id, FluidML: ml, Category: values.CategoryBeverage, MinIDDSI: values.IDDSIThinLiquid}
}

func orderOf(items ...entities.MenuItem) *entities.Order {
	order := &entities.Order{ID: "ord-1"}
	for i, item := range items {
		order.Lines = append(order.Lines, entities.OrderLine{ID: string(rune('a' + i)), Item: item})
	}
	return order
}

func testSnapshotWithLevels(levels ...int) *rules.Snapshot {
	def := testSnapshot().Definition()
	def.IDDSILevels = nil
	for _, l := range levels {
		def.IDDSILevels = append(def.IDDSILevels, rules.IDDSIRule{Level: l})
	}
	return rules.MustCompile(def)
}
