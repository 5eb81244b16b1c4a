package dto

import (
	"fmt"
	"strings"

	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// ProfileDocument is the wire and file form of a resident's dietary profile.
type ProfileDocument struct {
	ResidentID         string            `json:"resident_id" yaml:"resident_id"`
	DietType           string            `json:"diet_type" yaml:"diet_type"`
	IDDSILevel         *int              `json:"iddsi_level" yaml:"iddsi_level"`
	FluidRestrictionML *int              `json:"fluid_restriction_ml,omitempty" yaml:"fluid_restriction_ml,omitempty"`
	MealSize           string            `json:"meal_size,omitempty" yaml:"meal_size,omitempty"`
	Allergies          []AllergyDocument `json:"allergies,omitempty" yaml:"allergies,omitempty"`
}

// AllergyDocument is one allergy entry. HardRestriction defaults to true.
type AllergyDocument struct {
	Allergen        string `json:"allergen" yaml:"allergen"`
	Severity        string `json:"severity" yaml:"severity"`
	HardRestriction *bool  `json:"hard_restriction,omitempty" yaml:"hard_restriction,omitempty"`
}

// MenuItemDocument describes a menu item. MinIDDSI defaults to 7 (regular)
// and Available defaults to true.
type MenuItemDocument struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Allergens    []string `json:"allergens,omitempty" yaml:"allergens,omitempty"`
	Diets        []string `json:"diets,omitempty" yaml:"diets,omitempty"`
	MinIDDSI     *int     `json:"min_iddsi,omitempty" yaml:"min_iddsi,omitempty"`
	FluidML      int      `json:"fluid_ml,omitempty" yaml:"fluid_ml,omitempty"`
	Category     string   `json:"category,omitempty" yaml:"category,omitempty"`
	PortionGrams *int     `json:"portion_grams,omitempty" yaml:"portion_grams,omitempty"`
	Available    *bool    `json:"available,omitempty" yaml:"available,omitempty"`
}

// MenuDocument is a catalog of items that order lines may reference by id.
type MenuDocument struct {
	Items []MenuItemDocument `json:"items" yaml:"items"`
}

// OrderDocument is the wire and file form of an order.
type OrderDocument struct {
	ID              string              `json:"id,omitempty" yaml:"id,omitempty"`
	FluidConsumedML int                 `json:"fluid_consumed_ml,omitempty" yaml:"fluid_consumed_ml,omitempty"`
	Lines           []OrderLineDocument `json:"lines" yaml:"lines"`
}

// OrderLineDocument carries either an inline item or an item_id resolved
// against a menu.
type OrderLineDocument struct {
	ID       string            `json:"id" yaml:"id"`
	ItemID   string            `json:"item_id,omitempty" yaml:"item_id,omitempty"`
	Item     *MenuItemDocument `json:"item,omitempty" yaml:"item,omitempty"`
	Quantity int               `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Note     string            `json:"note,omitempty" yaml:"note,omitempty"`
}

// Index returns the menu keyed by item id.
func (m *MenuDocument) Index() map[string]MenuItemDocument {
	if m == nil {
		return nil
	}
	idx := make(map[string]MenuItemDocument, len(m.Items))
	for _, item := range m.Items {
		idx[strings.TrimSpace(item.ID)] = item
	}
	return idx
}

// ToEntity converts the document, collecting every conversion problem.
func (d *ProfileDocument) ToEntity() (*entities.DietaryProfile, []string) {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, "profile: "+fmt.Sprintf(format, args...))
	}

	profile := &entities.DietaryProfile{
		DietType:           strings.TrimSpace(d.DietType),
		FluidRestrictionML: d.FluidRestrictionML,
	}

	if id, err := values.NewResidentID(d.ResidentID); err != nil {
		add("%v", err)
	} else {
		profile.ResidentID = id
	}

	if d.IDDSILevel == nil {
		add("iddsi_level is required")
	} else {
		profile.IDDSILevel = values.IDDSILevel(*d.IDDSILevel)
	}

	if size, err := values.ParseMealSize(d.MealSize); err != nil {
		add("%v", err)
	} else {
		profile.MealSize = size
	}

	for i, a := range d.Allergies {
		sev, err := values.NewAllergySeverity(a.Severity)
		if err != nil {
			problems = append(problems, fmt.Sprintf("allergy %d: %v", i, err))
		}
		hard := true
		if a.HardRestriction != nil {
			hard = *a.HardRestriction
		}
		profile.Allergies = append(profile.Allergies, entities.Allergy{
			Allergen:        strings.TrimSpace(a.Allergen),
			Severity:        sev,
			HardRestriction: hard,
		})
	}

	return profile, problems
}

// ToEntity converts a menu item document.
func (d *MenuItemDocument) ToEntity(prefix string) (entities.MenuItem, []string) {
	var problems []string

	item := entities.MenuItem{
		ID:           strings.TrimSpace(d.ID),
		Name:         d.Name,
		AllergenTags: d.Allergens,
		DietTags:     d.Diets,
		MinIDDSI:     values.IDDSIRegular,
		FluidML:      d.FluidML,
		PortionGrams: d.PortionGrams,
		Unavailable:  d.Available != nil && !*d.Available,
	}
	if d.MinIDDSI != nil {
		item.MinIDDSI = values.IDDSILevel(*d.MinIDDSI)
	}
	cat, err := values.ParseCategory(d.Category)
	if err != nil {
		problems = append(problems, fmt.Sprintf("%s: %v", prefix, err))
	}
	item.Category = cat

	return item, problems
}

// ToEntity converts the order, resolving item_id references against menu.
func (d *OrderDocument) ToEntity(menu map[string]MenuItemDocument) (*entities.Order, []string) {
	var problems []string
	order := &entities.Order{ID: strings.TrimSpace(d.ID), FluidConsumedML: d.FluidConsumedML}

	for i, l := range d.Lines {
		prefix := fmt.Sprintf("line %d", i)
		doc := l.Item
		if doc == nil {
			ref := strings.TrimSpace(l.ItemID)
			found, ok := menu[ref]
			switch {
			case ref == "":
				problems = append(problems, prefix+": either item or item_id is required")
			case !ok:
				problems = append(problems, fmt.Sprintf("%s: unknown menu item %s", prefix, ref))
			default:
				doc = &found
			}
		}

		line := entities.OrderLine{ID: strings.TrimSpace(l.ID), Quantity: l.Quantity, Note: l.Note}
		if doc != nil {
			item, itemProblems := doc.ToEntity(prefix)
			problems = append(problems, itemProblems...)
			line.Item = item
		}
		order.Lines = append(order.Lines, line)
	}

	return order, problems
}

// BuildEvaluationInput converts wire documents into domain entities and runs
// structural validation. All problems are reported in one
// *apperrors.InputMalformedError.
func BuildEvaluationInput(profile ProfileDocument, order OrderDocument, menu *MenuDocument) (*entities.DietaryProfile, *entities.Order, error) {
	p, problems := profile.ToEntity()
	o, orderProblems := order.ToEntity(menu.Index())
	problems = append(problems, orderProblems...)

	if len(problems) > 0 {
		return nil, nil, apperrors.NewInputMalformedError(problems...)
	}
	if err := entities.ValidateEvaluationInput(p, o); err != nil {
		if malformed, ok := apperrors.AsInputMalformed(err); ok {
			return nil, nil, malformed
		}
		return nil, nil, err
	}
	return p, o, nil
}
