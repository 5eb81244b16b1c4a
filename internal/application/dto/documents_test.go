package dto

import (
	"errors"
	"testing"

	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestBuildEvaluationInput_Defaults(t *testing.T) {
	profile := ProfileDocument{
		ResidentID: "r-1",
		DietType:   "regular",
		IDDSILevel: intPtr(5),
		MealSize:   "medium",
		Allergies: []AllergyDocument{
			{Allergen: "peanut", Severity: "severe"},
			{Allergen: "milk", Severity: "mild", HardRestriction: boolPtr(false)},
		},
	}
	order := OrderDocument{
		ID: "o-1",
		Lines: []OrderLineDocument{
			{ID: "a", Item: &MenuItemDocument{ID: "tea", FluidML: 200, Category: "beverage", MinIDDSI: intPtr(0)}},
			{ID: "b", ItemID: "pie", Quantity: 2},
		},
	}
	menu := &MenuDocument{Items: []MenuItemDocument{{ID: "pie", Name: "Apple Pie", Available: boolPtr(false)}}}

	p, o, err := BuildEvaluationInput(profile, order, menu)
	require.NoError(t, err)

	assert.Equal(t, values.MealSizeRegular, p.MealSize)
	assert.Equal(t, values.IDDSIMincedMoist, p.IDDSILevel)
	assert.True(t, p.Allergies[0].HardRestriction)
	assert.False(t, p.Allergies[1].HardRestriction)
	assert.Nil(t, p.FluidRestrictionML)

	require.Len(t, o.Lines, 2)
	assert.Equal(t, values.IDDSIThinLiquid, o.Lines[0].Item.MinIDDSI)
	pie := o.Lines[1].Item
	assert.Equal(t, "Apple Pie", pie.Name)
	assert.Equal(t, values.IDDSIRegular, pie.MinIDDSI)
	assert.Equal(t, values.CategoryOther, pie.Category)
	assert.True(t, pie.Unavailable)
	assert.Equal(t, 2, o.Lines[1].Quantity)
}

func TestBuildEvaluationInput_Malformed(t *testing.T) {
	profile := ProfileDocument{DietType: "regular", MealSize: "huge",
		Allergies: []AllergyDocument{{Allergen: "egg", Severity: "sometimes"}}}
	order := OrderDocument{Lines: []OrderLineDocument{
		{ID: "a", ItemID: "ghost"},
		{ID: "b"},
		{ID: "c", Item: &MenuItemDocument{ID: "x", Category: "snack"}},
	}}

	_, _, err := BuildEvaluationInput(profile, order, nil)
	var malformed *apperrors.InputMalformedError
	require.True(t, errors.As(err, &malformed))
	assert.True(t, errors.Is(err, entities.ErrInputMalformed))

	assert.Contains(t, malformed.Problems, "profile: resident ID cannot be empty")
	assert.Contains(t, malformed.Problems, "profile: iddsi_level is required")
	assert.Contains(t, malformed.Problems, "profile: invalid meal size: huge")
	assert.Contains(t, malformed.Problems, "allergy 0: invalid allergy severity: sometimes")
	assert.Contains(t, malformed.Problems, "line 0: unknown menu item ghost")
	assert.Contains(t, malformed.Problems, "line 1: either item or item_id is required")
	assert.Contains(t, malformed.Problems, `line 2: invalid category: "snack"`)
}

func TestBuildEvaluationInput_EmptyOrder(t *testing.T) {
	profile := ProfileDocument{ResidentID: "r", DietType: "regular", IDDSILevel: intPtr(7)}
	_, _, err := BuildEvaluationInput(profile, OrderDocument{}, nil)
	var malformed *apperrors.InputMalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, []string{"order: order must contain at least one line"}, malformed.Problems)
}

func TestPrincipal_HasRole(t *testing.T) {
	nurse := Principal{Subject: "n", Roles: []string{RoleEvaluator}}
	admin := Principal{Subject: "a", Roles: []string{RoleAdmin}}

	assert.True(t, nurse.HasRole(RoleEvaluator))
	assert.False(t, nurse.HasRole(RoleAdmin))
	assert.True(t, admin.HasRole(RoleEvaluator))
	assert.True(t, Principal{}.IsAnonymous())
}
