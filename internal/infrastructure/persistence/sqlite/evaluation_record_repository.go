// Package sqlite stores the evaluation audit trail in an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/repositories"
	"github.com/mealguard-dev/mealguard/internal/domain/values"

	_ "modernc.org/sqlite"
)

var _ repositories.EvaluationRecordRepository = (*EvaluationRecordRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS evaluation_records (
	id              TEXT PRIMARY KEY,
	resident_id     TEXT NOT NULL,
	order_id        TEXT NOT NULL DEFAULT '',
	ruleset_version TEXT NOT NULL,
	verdict         TEXT NOT NULL,
	input_digest    TEXT NOT NULL,
	evaluated_at    INTEGER NOT NULL,
	record          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS evaluation_records_resident_time
	ON evaluation_records (resident_id, evaluated_at);
`

// EvaluationRecordRepository is an append-only audit trail backed by SQLite.
type EvaluationRecordRepository struct {
	db   *sql.DB
	path string
}

// Open creates the database file if needed and ensures the schema exists.
func Open(ctx context.Context, path string) (*EvaluationRecordRepository, error) {
	if path == "" {
		path = filepath.Join(os.TempDir(), "mealguard-audit.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create audit directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}
	return &EvaluationRecordRepository{db: db, path: path}, nil
}

// Path returns the database file location.
func (r *EvaluationRecordRepository) Path() string { return r.path }

// Close releases the database handle.
func (r *EvaluationRecordRepository) Close() error {
	return r.db.Close()
}

// Append stores a new record.
func (r *EvaluationRecordRepository) Append(ctx context.Context, record *evaluation.Record) error {
	blob, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO evaluation_records
			(id, resident_id, order_id, ruleset_version, verdict, input_digest, evaluated_at, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		record.ID.String(), record.ResidentID, record.OrderID, record.RuleSetVersion,
		string(record.Verdict), record.InputDigest, record.EvaluatedAt.UTC().UnixNano(), string(blob),
	)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", repositories.ErrDuplicateRecord, record.ID)
	}
	return nil
}

// FindByID retrieves a record by its unique ID.
func (r *EvaluationRecordRepository) FindByID(ctx context.Context, id values.EvaluationID) (*evaluation.Record, error) {
	var blob string
	err := r.db.QueryRowContext(ctx,
		`SELECT record FROM evaluation_records WHERE id = ?`, id.String(),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repositories.ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find record: %w", err)
	}
	return decodeRecord(blob)
}

// FindByResident retrieves recent records for a resident, newest first.
func (r *EvaluationRecordRepository) FindByResident(ctx context.Context, residentID string, limit int) ([]*evaluation.Record, error) {
	query := `SELECT record FROM evaluation_records WHERE resident_id = ? ORDER BY evaluated_at DESC, id`
	args := []any{residentID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(ctx, query, args...)
}

// FindBetween retrieves a resident's records within [start, end), oldest first.
func (r *EvaluationRecordRepository) FindBetween(ctx context.Context, residentID string, start, end time.Time) ([]*evaluation.Record, error) {
	return r.query(ctx, `
		SELECT record FROM evaluation_records
		WHERE resident_id = ? AND evaluated_at >= ? AND evaluated_at < ?
		ORDER BY evaluated_at ASC, id`,
		residentID, start.UTC().UnixNano(), end.UTC().UnixNano(),
	)
}

func (r *EvaluationRecordRepository) query(ctx context.Context, query string, args ...any) ([]*evaluation.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*evaluation.Record
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := decodeRecord(blob)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func decodeRecord(blob string) (*evaluation.Record, error) {
	var rec evaluation.Record
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}
