package services

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedOrder() (*entities.DietaryProfile, *entities.Order) {
	profile := &entities.DietaryProfile{
		ResidentID:         values.MustNewResidentID("res-42"),
		DietType:           "vegetarian",
		IDDSILevel:         values.IDDSIPureed,
		FluidRestrictionML: intPtr(1000),
		MealSize:           values.MealSizeSmall,
		Allergies: []entities.Allergy{
			{Allergen: "shellfish", Severity: values.SevSevere, HardRestriction: true},
			{Allergen: "milk", Severity: values.SevMild},
		},
	}
	order := &entities.Order{
		ID: "ord-9",
		Lines: []entities.OrderLine{
			{ID: "soup", Item: entities.MenuItem{ID: "bisque", Name: "Prawn Bisque", AllergenTags: []string{"milk", "prawn"}, DietTags: []string{"vegetarian"}, MinIDDSI: values.IDDSIPureed, FluidML: 400, Category: values.CategorySoup}},
			{ID: "shake", Item: entities.MenuItem{ID: "shake", AllergenTags: []string{"milk"}, DietTags: []string{"vegan"}, MinIDDSI: values.IDDSIMildlyThick, FluidML: 400, Category: values.CategoryBeverage}},
			{ID: "juice", Item: entities.MenuItem{ID: "juice", DietTags: []string{"vegan"}, FluidML: 400, Category: values.CategoryBeverage}},
			{ID: "main", Item: entities.MenuItem{ID: "curry", DietTags: []string{"vegan"}, MinIDDSI: values.IDDSIPureed, Category: values.CategoryMain, PortionGrams: intPtr(200)}},
		},
	}
	return profile, order
}

func TestComplianceEvaluator_MixedOrder(t *testing.T) {
	profile, order := mixedOrder()
	result, err := NewComplianceEvaluator().Evaluate(profile, order, testSnapshot())
	require.NoError(t, err)

	require.Len(t, result.Lines, 4)
	assert.Equal(t, values.VerdictBlocked, result.Verdict)
	assert.Equal(t, "res-42", result.ResidentID)
	assert.Equal(t, "ord-9", result.OrderID)

	// hard shellfish match via prawn alias blocks despite the milk warning
	soup := result.Lines[0]
	assert.Equal(t, values.VerdictBlocked, soup.Verdict)
	require.Len(t, soup.Findings, 2)
	assert.Equal(t, "shellfish", soup.Findings[0].Allergen)
	assert.Equal(t, "shrimp", soup.Findings[0].MatchedTag)
	assert.Equal(t, values.ClassBlock, soup.Findings[0].Class)
	assert.Equal(t, "milk", soup.Findings[1].Allergen)
	assert.Equal(t, values.ClassWarn, soup.Findings[1].Class)

	shake := result.Lines[1]
	assert.Equal(t, values.VerdictAllowedWithWarning, shake.Verdict)

	juice := result.Lines[2]
	assert.Equal(t, values.VerdictBlocked, juice.Verdict)
	assert.True(t, juice.HasFinding(values.KindFluidLimitExceeded))

	main := result.Lines[3]
	assert.Equal(t, values.VerdictAllowed, main.Verdict)
	assert.Empty(t, main.Findings)

	assert.Equal(t, evaluation.Summary{
		TotalLines: 4, AllowedLines: 1, WarningLines: 1, BlockedLines: 2,
		TotalFindings: 4, FluidChargedML: 800,
	}, result.Summary)
}

func TestComplianceEvaluator_EmptyOrderIsMalformed(t *testing.T) {
	result, err := NewComplianceEvaluator().Evaluate(regularProfile(), &entities.Order{ID: "empty"}, testSnapshot())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, entities.ErrInputMalformed))
}

func TestComplianceEvaluator_DuplicateLineIDsAreMalformed(t *testing.T) {
	order := orderOf(beverage("tea", 100), beverage("coffee", 100))
	order.Lines[1].ID = order.Lines[0].ID

	_, err := NewComplianceEvaluator().Evaluate(regularProfile(), order, testSnapshot())
	var malformed *entities.MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Problems[0], "duplicate line ID")
}

func TestComplianceEvaluator_NoRuleSet(t *testing.T) {
	_, err := NewComplianceEvaluator().Evaluate(regularProfile(), orderOf(beverage("tea", 100)), nil)
	assert.ErrorIs(t, err, ErrNoRuleSet)
}

func TestComplianceEvaluator_ResolutionFailuresNeverAbort(t *testing.T) {
	profile := regularProfile()
	profile.DietType = "keto"

	result, err := NewComplianceEvaluator().Evaluate(profile, orderOf(beverage("tea", 100), beverage("coffee", 100)), testSnapshot())
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)
	for _, line := range result.Lines {
		assert.Equal(t, values.VerdictBlocked, line.Verdict)
		assert.True(t, line.HasFinding(values.KindRuleResolutionFailed))
	}
}

func TestComplianceEvaluator_UnavailableItem(t *testing.T) {
	item := beverage("tea", 100)
	item.Unavailable = true

	result, err := NewComplianceEvaluator().Evaluate(regularProfile(), orderOf(item, beverage("water", 100)), testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, values.VerdictBlocked, result.Lines[0].Verdict)
	assert.True(t, result.Lines[0].HasFinding(values.KindItemUnavailable))
	assert.Equal(t, values.VerdictAllowed, result.Lines[1].Verdict)
}

func TestComplianceEvaluator_AdvisoryWarns(t *testing.T) {
	profile := regularProfile()
	profile.DietType = "diabetic"
	cake := entities.MenuItem{ID: "cake", DietTags: []string{"diabetic"}, Category: values.CategoryDessert}

	result, err := NewComplianceEvaluator().Evaluate(profile, orderOf(cake), testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, values.VerdictAllowedWithWarning, result.Verdict)
	require.Len(t, result.Lines[0].Findings, 1)
	assert.Equal(t, values.KindAdvisory, result.Lines[0].Findings[0].Kind)
	assert.Equal(t, "confirm sugar-free preparation", result.Lines[0].Findings[0].Message)
}

func TestComplianceEvaluator_OrderVerdictMonotonicity(t *testing.T) {
	snap := testSnapshot()
	evaluator := NewComplianceEvaluator()

	items := []entities.MenuItem{
		beverage("water", 100),
		{ID: "steak", MinIDDSI: values.IDDSIRegular, Category: values.CategoryOther},
		{ID: "pie", AllergenTags: []string{"gluten"}, Category: values.CategoryOther},
	}

	profile := regularProfile()
	profile.IDDSILevel = values.IDDSISoftBiteSized
	profile.Allergies = []entities.Allergy{{Allergen: "gluten", Severity: values.SevMild}}

	for mask := 1; mask < 1<<len(items); mask++ {
		var chosen []entities.MenuItem
		for i, item := range items {
			if mask&(1<<i) != 0 {
				chosen = append(chosen, item)
			}
		}
		result, err := evaluator.Evaluate(profile, orderOf(chosen...), snap)
		require.NoError(t, err)

		anyBlocked, anyWarn := false, false
		for _, line := range result.Lines {
			anyBlocked = anyBlocked || line.Verdict.IsBlocked()
			anyWarn = anyWarn || line.Verdict.HasWarning()
		}
		assert.Equal(t, anyBlocked, result.Verdict.IsBlocked(), "mask %b", mask)
		if !anyBlocked {
			assert.Equal(t, anyWarn, result.Verdict.HasWarning(), "mask %b", mask)
		}
	}
}

func TestComplianceEvaluator_Deterministic(t *testing.T) {
	snap := testSnapshot()
	evaluator := NewComplianceEvaluator()

	profile, order := mixedOrder()
	first, err := evaluator.Evaluate(profile, order, snap)
	require.NoError(t, err)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	for range 10 {
		again, err := evaluator.Evaluate(profile, order, snap)
		require.NoError(t, err)
		assert.Equal(t, first, again)

		againJSON, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, firstJSON, againJSON)
	}
}

func TestComplianceEvaluator_DoesNotMutateInputs(t *testing.T) {
	profile, order := mixedOrder()
	wantProfile, wantOrder := mixedOrder()

	_, err := NewComplianceEvaluator().Evaluate(profile, order, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, wantProfile, profile)
	assert.Equal(t, wantOrder, order)
}

func TestComplianceEvaluator_ConcurrentCallsAreIndependent(t *testing.T) {
	snap := testSnapshot()
	evaluator := NewComplianceEvaluator()
	profile, order := mixedOrder()

	expected, err := evaluator.Evaluate(profile, order, snap)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*evaluation.Result, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, o := mixedOrder()
			results[i], _ = evaluator.Evaluate(p, o, snap)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, expected, r)
	}
}
