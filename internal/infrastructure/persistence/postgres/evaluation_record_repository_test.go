package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_PropagatesDriverErrors(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })

	var gotDriver string
	sqlOpen = func(driver, _ string) (*sql.DB, error) {
		gotDriver = driver
		return nil, errors.New("boom")
	}

	_, err := Open(context.Background(), "postgres://localhost/mealguard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open postgres")
	assert.Equal(t, "pgx", gotDriver)
}

func TestFindingKinds(t *testing.T) {
	rec := &evaluation.Record{Result: &evaluation.Result{
		Lines: []evaluation.LineResult{
			{Findings: []evaluation.Finding{
				{Kind: values.KindAllergenMatch},
				{Kind: values.KindDietIncompatible},
			}},
			{Findings: []evaluation.Finding{
				{Kind: values.KindAllergenMatch},
				{Kind: values.KindAdvisory},
			}},
		},
	}}

	assert.Equal(t, []string{"AllergenMatch", "DietIncompatible", "Advisory"}, findingKinds(rec))
	assert.Equal(t, []string{}, findingKinds(&evaluation.Record{}))
}
