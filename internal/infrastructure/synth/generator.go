// Package synth generates synthetic residents, menus and orders for load and
// regression runs.
package synth

import (
	"fmt"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

var (
	severities = []string{"mild", "moderate", "severe", "anaphylaxis"}
	mealSizes  = []string{"small", "regular", "large"}
	categories = []string{
		string(values.CategoryMain), string(values.CategorySoup), string(values.CategorySandwich),
		string(values.CategorySalad), string(values.CategoryDessert), string(values.CategoryBeverage),
	}
)

// Case is one generated evaluation input.
type Case struct {
	Profile dto.ProfileDocument
	Order   dto.OrderDocument
}

// Generator draws documents whose tags come from the active rule set. For a
// given seed and rule set the generated documents are identical except for
// order IDs.
type Generator struct {
	fake      faker.Faker
	diets     []string
	allergens []string
	levels    []int
	menu      dto.MenuDocument
	residents int
}

// New creates a generator and a menu of menuSize items.
func New(seed int64, snap *rules.Snapshot, menuSize int) *Generator {
	g := &Generator{
		fake:      faker.NewWithSeed(rand.NewSource(seed)),
		diets:     snap.DietTypeIDs(),
		allergens: snap.AllergenIDs(),
	}
	for _, l := range snap.Definition().IDDSILevels {
		g.levels = append(g.levels, l.Level)
	}
	if menuSize <= 0 {
		menuSize = 40
	}
	g.menu = g.generateMenu(menuSize)
	return g
}

// Menu returns the generated menu.
func (g *Generator) Menu() *dto.MenuDocument {
	return &g.menu
}

// Next generates one resident and an order against the menu.
func (g *Generator) Next() Case {
	g.residents++
	return Case{
		Profile: g.profile(fmt.Sprintf("res-%05d", g.residents)),
		Order:   g.order(),
	}
}

// Cases generates n cases.
func (g *Generator) Cases(n int) []Case {
	out := make([]Case, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.Next())
	}
	return out
}

func (g *Generator) generateMenu(n int) dto.MenuDocument {
	items := make([]dto.MenuItemDocument, 0, n)
	for i := 0; i < n; i++ {
		category := g.fake.RandomStringElement(categories)
		item := dto.MenuItemDocument{
			ID:        fmt.Sprintf("item-%03d", i+1),
			Name:      g.itemName(category),
			Category:  category,
			Allergens: g.pick(g.allergens, 0, 2),
			Diets:     g.pick(g.diets, 0, 3),
		}
		if len(g.levels) > 0 && g.fake.IntBetween(0, 3) == 0 {
			level := g.levels[g.fake.IntBetween(0, len(g.levels)-1)]
			item.MinIDDSI = &level
		}
		switch category {
		case string(values.CategoryBeverage):
			item.FluidML = g.fake.IntBetween(10, 30) * 10
		case string(values.CategorySoup):
			item.FluidML = g.fake.IntBetween(15, 25) * 10
		}
		if g.fake.IntBetween(0, 4) == 0 {
			grams := g.fake.IntBetween(8, 50) * 10
			item.PortionGrams = &grams
		}
		if g.fake.IntBetween(0, 19) == 0 {
			unavailable := false
			item.Available = &unavailable
		}
		items = append(items, item)
	}
	return dto.MenuDocument{Items: items}
}

func (g *Generator) itemName(category string) string {
	switch category {
	case string(values.CategoryDessert):
		return g.fake.Food().Fruit() + " crumble"
	case string(values.CategoryBeverage):
		return g.fake.Food().Fruit() + " juice"
	case string(values.CategorySoup):
		return g.fake.Food().Vegetable() + " soup"
	default:
		return g.fake.Food().Vegetable() + " " + category
	}
}

func (g *Generator) profile(residentID string) dto.ProfileDocument {
	p := dto.ProfileDocument{
		ResidentID: residentID,
		MealSize:   g.fake.RandomStringElement(mealSizes),
	}
	if len(g.diets) > 0 {
		p.DietType = g.fake.RandomStringElement(g.diets)
	}

	level := 7
	if len(g.levels) > 0 && g.fake.IntBetween(0, 2) == 0 {
		level = g.levels[g.fake.IntBetween(0, len(g.levels)-1)]
	}
	p.IDDSILevel = &level

	if g.fake.Bool() {
		limit := g.fake.IntBetween(8, 15) * 100
		p.FluidRestrictionML = &limit
	}

	for _, allergen := range g.pick(g.allergens, 0, 2) {
		p.Allergies = append(p.Allergies, dto.AllergyDocument{
			Allergen: allergen,
			Severity: g.fake.RandomStringElement(severities),
		})
	}
	return p
}

func (g *Generator) order() dto.OrderDocument {
	o := dto.OrderDocument{ID: cuid.New()}
	if g.fake.IntBetween(0, 2) == 0 {
		o.FluidConsumedML = g.fake.IntBetween(1, 10) * 100
	}

	lines := g.fake.IntBetween(1, 5)
	for i := 0; i < lines; i++ {
		item := g.menu.Items[g.fake.IntBetween(0, len(g.menu.Items)-1)]
		o.Lines = append(o.Lines, dto.OrderLineDocument{
			ID:       fmt.Sprintf("l%d", i+1),
			ItemID:   item.ID,
			Quantity: g.fake.IntBetween(1, 2),
		})
	}
	return o
}

// pick draws between lo and hi distinct elements of from.
func (g *Generator) pick(from []string, lo, hi int) []string {
	if len(from) == 0 {
		return nil
	}
	if hi > len(from) {
		hi = len(from)
	}
	n := g.fake.IntBetween(lo, hi)
	if n == 0 {
		return nil
	}
	idx := make([]int, len(from))
	for i := range idx {
		idx[i] = i
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j := g.fake.IntBetween(i, len(idx)-1)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, from[idx[i]])
	}
	return out
}
