package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/repositories"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryQuery selects audit records for one resident, newest first. A zero
// From and To returns the most recent records; otherwise the most recent
// records within [From, To).
type HistoryQuery struct {
	ResidentID string
	Limit      int
	From       time.Time
	To         time.Time
	Metadata   dto.RequestMetadata
}

// EvaluationHistoryService reads the evaluation audit trail.
type EvaluationHistoryService struct {
	records repositories.EvaluationRecordRepository
}

// NewEvaluationHistoryService creates a history reader.
func NewEvaluationHistoryService(records repositories.EvaluationRecordRepository) *EvaluationHistoryService {
	return &EvaluationHistoryService{records: records}
}

// Get returns one record by ID.
func (s *EvaluationHistoryService) Get(ctx context.Context, id string, meta dto.RequestMetadata) (*evaluation.Record, error) {
	if err := s.authorize(meta.Principal); err != nil {
		return nil, err
	}
	evalID, err := values.ParseEvaluationID(id)
	if err != nil {
		return nil, apperrors.NewInputMalformedError(err.Error())
	}
	rec, err := s.records.FindByID(ctx, evalID)
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("evaluation", id, err)
	}
	return rec, err
}

// List returns records for a resident.
func (s *EvaluationHistoryService) List(ctx context.Context, q HistoryQuery) ([]*evaluation.Record, error) {
	if err := s.authorize(q.Metadata.Principal); err != nil {
		return nil, err
	}
	resident := strings.TrimSpace(q.ResidentID)
	if resident == "" {
		return nil, apperrors.NewInputMalformedError("resident_id is required")
	}

	if q.From.IsZero() && q.To.IsZero() {
		return s.records.FindByResident(ctx, resident, clampLimit(q.Limit))
	}
	if q.To.IsZero() {
		q.To = time.Now()
	}
	if !q.From.Before(q.To) {
		return nil, apperrors.NewInputMalformedError("from must be before to")
	}
	recs, err := s.records.FindBetween(ctx, resident, q.From, q.To)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(recs, func(a, b *evaluation.Record) int {
		return b.EvaluatedAt.Compare(a.EvaluatedAt)
	})
	if limit := clampLimit(q.Limit); len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *EvaluationHistoryService) authorize(p dto.Principal) error {
	if s.records == nil {
		return apperrors.NewConfigurationError("audit", "no audit trail configured", nil)
	}
	if !p.HasRole(dto.RoleEvaluator) {
		return apperrors.NewAuthorizationError(p.Subject, dto.RoleEvaluator)
	}
	return nil
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultHistoryLimit
	case n > maxHistoryLimit:
		return maxHistoryLimit
	default:
		return n
	}
}
