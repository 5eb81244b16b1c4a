package services

import (
	"math"
	"testing"

	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockedFluidLines runs the guard over volumes and returns the indices that
// were blocked with the remaining allowance reported for each.
func blockedFluidLines(t *testing.T, limit *int, consumed int, volumes ...int) map[int]int {
	t.Helper()
	profile := regularProfile()
	profile.FluidRestrictionML = limit
	guard := NewFluidPortionGuard(profile, testSnapshot(), consumed)

	blocked := make(map[int]int)
	for i, v := range volumes {
		line := entities.OrderLine{ID: "l", Item: beverage("drink", v)}
		findings := guard.CheckFluid(&line)
		if len(findings) == 0 {
			continue
		}
		require.Len(t, findings, 1)
		assert.Equal(t, values.KindFluidLimitExceeded, findings[0].Kind)
		assert.Equal(t, values.ClassBlock, findings[0].Class)
		require.NotNil(t, findings[0].RemainingML)
		blocked[i] = *findings[0].RemainingML
	}
	return blocked
}

func TestFluidPortionGuard_FirstExceedsWins(t *testing.T) {
	tests := []struct {
		name     string
		limit    *int
		consumed int
		volumes  []int
		want     map[int]int
	}{
		{"equal volumes charge the third line", intPtr(1000), 0, []int{400, 400, 400}, map[int]int{2: 200}},
		{"distinct volumes charge the later line", intPtr(1000), 0, []int{300, 800}, map[int]int{1: 700}},
		{"permuted distinct volumes", intPtr(1000), 0, []int{800, 300}, map[int]int{1: 200}},
		{"exactly at the cap is allowed", intPtr(1000), 0, []int{500, 500}, map[int]int{}},
		{"blocked line is not charged", intPtr(1000), 0, []int{400, 800, 100}, map[int]int{1: 600}},
		{"consumed fluid is pre-charged", intPtr(1000), 700, []int{200, 200}, map[int]int{1: 100}},
		{"consumed above cap reports zero", intPtr(500), 800, []int{100}, map[int]int{0: 0}},
		{"solids never exceed", intPtr(0), 0, []int{0, 0}, map[int]int{}},
		{"unrestricted", nil, 0, []int{5000, 5000}, map[int]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blockedFluidLines(t, tt.limit, tt.consumed, tt.volumes...))
		})
	}
}

func TestFluidPortionGuard_QuantityMultipliesFluid(t *testing.T) {
	profile := regularProfile()
	profile.FluidRestrictionML = intPtr(500)
	guard := NewFluidPortionGuard(profile, testSnapshot(), 0)

	line := entities.OrderLine{ID: "l1", Item: beverage("tea", 200), Quantity: 3}
	findings := guard.CheckFluid(&line)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "adds 600 mL")
	assert.Equal(t, 0, guard.ChargedML())
}

func TestFluidPortionGuard_OversizedVolumesStillBlock(t *testing.T) {
	t.Run("consumed at int max", func(t *testing.T) {
		assert.Equal(t, map[int]int{0: 0}, blockedFluidLines(t, intPtr(1000), math.MaxInt, 200))
	})

	t.Run("line volume times quantity past int max", func(t *testing.T) {
		profile := regularProfile()
		profile.FluidRestrictionML = intPtr(1000)
		guard := NewFluidPortionGuard(profile, testSnapshot(), 0)

		line := entities.OrderLine{ID: "l1", Item: beverage("flask", 1<<62), Quantity: 4}
		findings := guard.CheckFluid(&line)
		require.Len(t, findings, 1)
		assert.Equal(t, values.KindFluidLimitExceeded, findings[0].Kind)
		assert.Equal(t, 0, guard.ChargedML())
	})

	t.Run("unrestricted total saturates", func(t *testing.T) {
		guard := NewFluidPortionGuard(regularProfile(), testSnapshot(), math.MaxInt-10)
		line := entities.OrderLine{ID: "l1", Item: beverage("tea", 200)}
		assert.Empty(t, guard.CheckFluid(&line))
		assert.Equal(t, math.MaxInt, guard.ChargedML())
	})
}

func TestFluidPortionGuard_Portion(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name     string
		size     values.MealSize
		item     entities.MenuItem
		wantWarn bool
	}{
		{"regular main default fits", values.MealSizeRegular, entities.MenuItem{ID: "m", Category: values.CategoryMain}, false},
		{"small main default too large", values.MealSizeSmall, entities.MenuItem{ID: "m", Category: values.CategoryMain}, true},
		{"small main override fits", values.MealSizeSmall, entities.MenuItem{ID: "m", Category: values.CategoryMain, PortionGrams: intPtr(200)}, false},
		{"regular main too small", values.MealSizeRegular, entities.MenuItem{ID: "m", Category: values.CategoryMain, PortionGrams: intPtr(100)}, true},
		{"no policy for large", values.MealSizeLarge, entities.MenuItem{ID: "m", Category: values.CategoryMain}, false},
		{"no policy for soup", values.MealSizeSmall, entities.MenuItem{ID: "s", Category: values.CategorySoup}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := regularProfile()
			profile.MealSize = tt.size
			guard := NewFluidPortionGuard(profile, snap, 0)

			findings := guard.CheckPortion(&tt.item)
			if !tt.wantWarn {
				assert.Empty(t, findings)
				return
			}
			require.Len(t, findings, 1)
			assert.Equal(t, values.KindPortionMismatch, findings[0].Kind)
			assert.Equal(t, values.ClassWarn, findings[0].Class)
		})
	}
}
