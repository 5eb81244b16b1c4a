// Package repositories defines interfaces for domain persistence.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

var (
	// ErrRecordNotFound is returned when no record has the requested ID.
	ErrRecordNotFound = errors.New("evaluation record not found")
	// ErrDuplicateRecord is returned when a record ID is appended twice.
	ErrDuplicateRecord = errors.New("evaluation record already exists")
)

// EvaluationRecordRepository is the append-only audit trail of evaluations.
type EvaluationRecordRepository interface {
	// Append stores a new record. Existing records are never overwritten.
	Append(ctx context.Context, record *evaluation.Record) error

	// FindByID retrieves a record by its unique ID.
	FindByID(ctx context.Context, id values.EvaluationID) (*evaluation.Record, error)

	// FindByResident retrieves the most recent records for a resident, newest first.
	FindByResident(ctx context.Context, residentID string, limit int) ([]*evaluation.Record, error)

	// FindBetween retrieves a resident's records within [start, end), oldest first.
	FindBetween(ctx context.Context, residentID string, start, end time.Time) ([]*evaluation.Record, error)
}
