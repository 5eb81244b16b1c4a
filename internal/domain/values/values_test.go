package values

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseIDDSILevel(t *testing.T) {
	tests := []struct {
		input   string
		want    IDDSILevel
		wantErr bool
	}{
		{"4", IDDSIPureed, false},
		{"level_7", IDDSIRegular, false},
		{"Level5", IDDSIMincedMoist, false},
		{" 0 ", IDDSIThinLiquid, false},
		{"8", 0, true},
		{"-1", 0, true},
		{"soft", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIDDSILevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_IDDSILevel_Names(t *testing.T) {
	assert.Equal(t, "Thin Liquid", IDDSIThinLiquid.Name())
	assert.Equal(t, "Soft & Bite-Sized", IDDSISoftBiteSized.Name())
	assert.Equal(t, "Regular", IDDSIRegular.Name())
	assert.Equal(t, "", IDDSILevel(9).Name())
	assert.Equal(t, "level_4", IDDSIPureed.String())
}

func Test_IDDSILevel_Permits(t *testing.T) {
	assert.True(t, IDDSIPureed.Permits(IDDSIPureed))
	assert.True(t, IDDSIPureed.Permits(IDDSIMildlyThick))
	assert.False(t, IDDSIPureed.Permits(IDDSISoftBiteSized))
	assert.True(t, IDDSISoftBiteSized.Permits(IDDSISoftBiteSized))
	assert.False(t, IDDSISoftBiteSized.Permits(IDDSIRegular))
}

func Test_ParseMealSize(t *testing.T) {
	tests := []struct {
		input   string
		want    MealSize
		wantErr bool
	}{
		{"small", MealSizeSmall, false},
		{"medium", MealSizeRegular, false},
		{"Regular", MealSizeRegular, false},
		{"", MealSizeRegular, false},
		{"LARGE", MealSizeLarge, false},
		{"huge", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMealSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, got.Validate())
		})
	}
}

func Test_ParseCategory(t *testing.T) {
	c, err := ParseCategory("Beverage")
	require.NoError(t, err)
	assert.Equal(t, CategoryBeverage, c)

	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, CategoryOther, c)

	_, err = ParseCategory("snack")
	assert.Error(t, err)
}

func Test_Verdict_Precedence(t *testing.T) {
	assert.Greater(t, VerdictBlocked.Precedence(), VerdictAllowedWithWarning.Precedence())
	assert.Greater(t, VerdictAllowedWithWarning.Precedence(), VerdictAllowed.Precedence())
	assert.Equal(t, -1, Verdict("MAYBE").Precedence())

	assert.True(t, VerdictBlocked.IsBlocked())
	assert.True(t, VerdictAllowedWithWarning.HasWarning())
	assert.Error(t, Verdict("MAYBE").Validate())
}

func Test_Verdict_Scan(t *testing.T) {
	var v Verdict
	require.NoError(t, v.Scan("BLOCKED"))
	assert.Equal(t, VerdictBlocked, v)
	require.NoError(t, v.Scan([]byte("ALLOWED")))
	assert.Equal(t, VerdictAllowed, v)
	assert.Error(t, v.Scan("nope"))
	assert.Error(t, v.Scan(42))
}

func Test_FindingClass_Verdict(t *testing.T) {
	assert.Equal(t, VerdictBlocked, ClassBlock.Verdict())
	assert.Equal(t, VerdictAllowedWithWarning, ClassWarn.Verdict())
	assert.Equal(t, VerdictAllowed, FindingClass("").Verdict())
}

func Test_ResidentID(t *testing.T) {
	_, err := NewResidentID("   ")
	assert.Error(t, err)

	id := MustNewResidentID(" r-100 ")
	assert.Equal(t, "r-100", id.String())

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"r-100"`, string(data))

	var decoded ResidentID
	require.NoError(t, decoded.Scan([]byte("r-200")))
	assert.Equal(t, "r-200", decoded.String())
}

func Test_EvaluationID(t *testing.T) {
	a := NewEvaluationID()
	b := NewEvaluationID()
	assert.NotEqual(t, a.String(), b.String())
	assert.False(t, a.IsZero())

	parsed, err := ParseEvaluationID(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = ParseEvaluationID("not-a-uuid")
	assert.Error(t, err)
}
