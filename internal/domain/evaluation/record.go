package evaluation

import (
	"time"

	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// Record is an audit trail entry for one served evaluation. Records are
// append-only; they are never updated once stored.
type Record struct {
	ID             values.EvaluationID `json:"id"`
	ResidentID     string              `json:"resident_id"`
	OrderID        string              `json:"order_id,omitempty"`
	RuleSetVersion string              `json:"ruleset_version"`
	Verdict        values.Verdict      `json:"verdict"`
	Principal      string              `json:"principal,omitempty"`
	RequestID      string              `json:"request_id,omitempty"`
	InputDigest    string              `json:"input_digest"`
	EvaluatedAt    time.Time           `json:"evaluated_at"`
	Result         *Result             `json:"result"`
}

// NewRecord wraps a result for the audit trail.
func NewRecord(result *Result, inputDigest, principal, requestID string, at time.Time) *Record {
	return &Record{
		ID:             values.NewEvaluationID(),
		ResidentID:     result.ResidentID,
		OrderID:        result.OrderID,
		RuleSetVersion: result.RuleSetVersion,
		Verdict:        result.Verdict,
		Principal:      principal,
		RequestID:      requestID,
		InputDigest:    inputDigest,
		EvaluatedAt:    at.UTC(),
		Result:         result,
	}
}
