package services

import (
	"context"
	"testing"
	"time"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHistory(t *testing.T) (*EvaluationHistoryService, []*evaluation.Record) {
	t.Helper()
	records := memory.NewEvaluationRecordRepository()
	var seeded []*evaluation.Record
	for i := 0; i < 3; i++ {
		rec := evaluation.NewRecord(&evaluation.Result{
			ResidentID: "res-1",
			Verdict:    values.VerdictAllowed,
		}, "digest", "nurse-1", "", fixedNow.Add(time.Duration(i)*time.Hour))
		require.NoError(t, records.Append(context.Background(), rec))
		seeded = append(seeded, rec)
	}
	return NewEvaluationHistoryService(records), seeded
}

func TestEvaluationHistory_Get(t *testing.T) {
	svc, seeded := seedHistory(t)
	ctx := context.Background()

	got, err := svc.Get(ctx, seeded[1].ID.String(), evaluatorPrincipal())
	require.NoError(t, err)
	assert.Equal(t, seeded[1].ID, got.ID)

	_, err = svc.Get(ctx, values.NewEvaluationID().String(), evaluatorPrincipal())
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.Get(ctx, "not-a-uuid", evaluatorPrincipal())
	_, malformed := apperrors.AsInputMalformed(err)
	assert.True(t, malformed)

	_, err = svc.Get(ctx, seeded[0].ID.String(), dto.RequestMetadata{})
	var authErr *apperrors.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestEvaluationHistory_List(t *testing.T) {
	svc, seeded := seedHistory(t)
	ctx := context.Background()

	t.Run("recent", func(t *testing.T) {
		got, err := svc.List(ctx, HistoryQuery{ResidentID: "res-1", Limit: 2, Metadata: evaluatorPrincipal()})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, seeded[2].ID, got[0].ID)
	})

	t.Run("window", func(t *testing.T) {
		got, err := svc.List(ctx, HistoryQuery{
			ResidentID: "res-1",
			From:       fixedNow,
			To:         fixedNow.Add(2 * time.Hour),
			Metadata:   evaluatorPrincipal(),
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, seeded[1].ID, got[0].ID)
		assert.Equal(t, seeded[0].ID, got[1].ID)
	})

	t.Run("window keeps the most recent records", func(t *testing.T) {
		got, err := svc.List(ctx, HistoryQuery{
			ResidentID: "res-1",
			Limit:      2,
			From:       fixedNow,
			To:         fixedNow.Add(3 * time.Hour),
			Metadata:   evaluatorPrincipal(),
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, seeded[2].ID, got[0].ID)
		assert.Equal(t, seeded[1].ID, got[1].ID)
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := svc.List(ctx, HistoryQuery{
			ResidentID: "res-1",
			From:       fixedNow.Add(time.Hour),
			To:         fixedNow,
			Metadata:   evaluatorPrincipal(),
		})
		_, malformed := apperrors.AsInputMalformed(err)
		assert.True(t, malformed)
	})

	t.Run("resident required", func(t *testing.T) {
		_, err := svc.List(ctx, HistoryQuery{Metadata: evaluatorPrincipal()})
		assert.Error(t, err)
	})
}

func TestEvaluationHistory_NoAuditTrail(t *testing.T) {
	svc := NewEvaluationHistoryService(nil)
	_, err := svc.List(context.Background(), HistoryQuery{ResidentID: "res-1", Metadata: evaluatorPrincipal()})
	var cfgErr *apperrors.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultHistoryLimit, clampLimit(0))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, maxHistoryLimit, clampLimit(10_000))
}
