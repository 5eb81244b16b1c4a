// Package memory provides in-memory implementations of domain repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/repositories"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// Ensure interface compliance
var _ repositories.EvaluationRecordRepository = (*EvaluationRecordRepository)(nil)

// EvaluationRecordRepository is an in-memory audit trail.
// Useful for testing and ephemeral storage.
type EvaluationRecordRepository struct {
	records map[values.EvaluationID]*evaluation.Record
	mu      sync.RWMutex
}

// NewEvaluationRecordRepository creates a new in-memory repository.
func NewEvaluationRecordRepository() *EvaluationRecordRepository {
	return &EvaluationRecordRepository{
		records: make(map[values.EvaluationID]*evaluation.Record),
	}
}

// Append stores a copy of the record.
func (r *EvaluationRecordRepository) Append(_ context.Context, record *evaluation.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return fmt.Errorf("%w: %s", repositories.ErrDuplicateRecord, record.ID)
	}
	r.records[record.ID] = cloneRecord(record)
	return nil
}

// FindByID retrieves a record by its unique ID.
func (r *EvaluationRecordRepository) FindByID(_ context.Context, id values.EvaluationID) (*evaluation.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrRecordNotFound, id)
	}
	return cloneRecord(rec), nil
}

// FindByResident retrieves recent records for a resident, newest first.
func (r *EvaluationRecordRepository) FindByResident(_ context.Context, residentID string, limit int) ([]*evaluation.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*evaluation.Record
	for _, rec := range r.records {
		if rec.ResidentID == residentID {
			matches = append(matches, cloneRecord(rec))
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].EvaluatedAt.After(matches[j].EvaluatedAt)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// FindBetween retrieves a resident's records within [start, end), oldest first.
func (r *EvaluationRecordRepository) FindBetween(_ context.Context, residentID string, start, end time.Time) ([]*evaluation.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*evaluation.Record
	for _, rec := range r.records {
		if rec.ResidentID != residentID {
			continue
		}
		if !rec.EvaluatedAt.Before(start) && rec.EvaluatedAt.Before(end) {
			matches = append(matches, cloneRecord(rec))
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].EvaluatedAt.Before(matches[j].EvaluatedAt)
	})
	return matches, nil
}

func cloneRecord(rec *evaluation.Record) *evaluation.Record {
	out := *rec
	if rec.Result != nil {
		out.Result = rec.Result.Clone()
	}
	return &out
}
