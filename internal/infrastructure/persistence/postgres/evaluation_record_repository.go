// Package postgres stores the evaluation audit trail in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/repositories"
	"github.com/mealguard-dev/mealguard/internal/domain/values"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

var _ repositories.EvaluationRecordRepository = (*EvaluationRecordRepository)(nil)

const driverName = "pgx"

var sqlOpen = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS evaluation_records (
	id              UUID PRIMARY KEY,
	resident_id     TEXT NOT NULL,
	order_id        TEXT NOT NULL DEFAULT '',
	ruleset_version TEXT NOT NULL,
	verdict         TEXT NOT NULL,
	finding_kinds   TEXT[] NOT NULL DEFAULT '{}',
	input_digest    TEXT NOT NULL,
	principal       TEXT NOT NULL DEFAULT '',
	evaluated_at    TIMESTAMPTZ NOT NULL,
	record          JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS evaluation_records_resident_time
	ON evaluation_records (resident_id, evaluated_at);
CREATE INDEX IF NOT EXISTS evaluation_records_finding_kinds
	ON evaluation_records USING GIN (finding_kinds);
`

// EvaluationRecordRepository is an append-only audit trail backed by PostgreSQL.
type EvaluationRecordRepository struct {
	db *sql.DB
}

// Open connects to dsn, verifies the connection and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*EvaluationRecordRepository, error) {
	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	repo, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// New wraps an existing handle and ensures the schema exists.
func New(ctx context.Context, db *sql.DB) (*EvaluationRecordRepository, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}
	return &EvaluationRecordRepository{db: db}, nil
}

// DB exposes the underlying handle for integration tests.
func (r *EvaluationRecordRepository) DB() *sql.DB { return r.db }

// Close releases the connection pool.
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
			(id, resident_id, order_id, ruleset_version, verdict, finding_kinds,
			 input_digest, principal, evaluated_at, record)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		record.ID.String(), record.ResidentID, record.OrderID, record.RuleSetVersion,
		string(record.Verdict), pq.Array(findingKinds(record)),
		record.InputDigest, record.Principal, record.EvaluatedAt.UTC(), string(blob),
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
	var blob []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT record FROM evaluation_records WHERE id = $1`, id.String(),
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
	if limit <= 0 {
		return r.query(ctx, `
			SELECT record FROM evaluation_records
			WHERE resident_id = $1
			ORDER BY evaluated_at DESC, id`, residentID)
	}
	return r.query(ctx, `
		SELECT record FROM evaluation_records
		WHERE resident_id = $1
		ORDER BY evaluated_at DESC, id
		LIMIT $2`, residentID, limit)
}

// FindBetween retrieves a resident's records within [start, end), oldest first.
func (r *EvaluationRecordRepository) FindBetween(ctx context.Context, residentID string, start, end time.Time) ([]*evaluation.Record, error) {
	return r.query(ctx, `
		SELECT record FROM evaluation_records
		WHERE resident_id = $1 AND evaluated_at >= $2 AND evaluated_at < $3
		ORDER BY evaluated_at ASC, id`,
		residentID, start.UTC(), end.UTC())
}

// FindByFindingKind retrieves the most recent records carrying any of kinds,
// newest first.
func (r *EvaluationRecordRepository) FindByFindingKind(ctx context.Context, kinds []values.FindingKind, limit int) ([]*evaluation.Record, error) {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	if limit <= 0 {
		limit = 100
	}
	return r.query(ctx, `
		SELECT record FROM evaluation_records
		WHERE finding_kinds && $1
		ORDER BY evaluated_at DESC, id
		LIMIT $2`, pq.Array(names), limit)
}

func (r *EvaluationRecordRepository) query(ctx context.Context, query string, args ...any) ([]*evaluation.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*evaluation.Record
	for rows.Next() {
		var blob []byte
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

// findingKinds lists the distinct finding kinds in line order.
func findingKinds(record *evaluation.Record) []string {
	if record.Result == nil {
		return []string{}
	}
	seen := make(map[values.FindingKind]bool)
	out := []string{}
	for _, f := range record.Result.Findings() {
		if seen[f.Kind] {
			continue
		}
		seen[f.Kind] = true
		out = append(out, string(f.Kind))
	}
	return out
}

func decodeRecord(blob []byte) (*evaluation.Record, error) {
	var rec evaluation.Record
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}
