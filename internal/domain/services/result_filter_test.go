package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultFilter(t *testing.T) {
	profile, order := mixedOrder()
	result, err := NewComplianceEvaluator().Evaluate(profile, order, testSnapshot())
	require.NoError(t, err)

	tests := []struct {
		expression string
		want       bool
	}{
		{"", true},
		{`verdict == "BLOCKED"`, true},
		{`verdict == "ALLOWED"`, false},
		{`"FluidLimitExceeded" in kinds`, true},
		{`"shellfish" in allergens && blocked_lines == 2`, true},
		{`resident == "someone-else"`, false},
		{`lines > 3 && warning_lines == 1`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := NewResultFilter(tt.expression)
			require.NoError(t, err)
			got, err := filter.Matches(result)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResultFilter_InvalidExpression(t *testing.T) {
	_, err := NewResultFilter(`verdict +`)
	assert.Error(t, err)

	_, err = NewResultFilter(`lines`)
	assert.Error(t, err)
}
