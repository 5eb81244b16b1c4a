// Package values contains domain value objects that wrap primitives with
// validation: severities, texture levels, verdicts and identifiers.
package values

import (
	"fmt"

	"github.com/google/uuid"
)

// EvaluationID identifies one served evaluation in the audit trail.
type EvaluationID struct {
	value uuid.UUID
}

// NewEvaluationID creates a new random evaluation ID
func NewEvaluationID() EvaluationID {
	return EvaluationID{value: uuid.New()}
}

// ParseEvaluationID parses a string into an EvaluationID
func ParseEvaluationID(s string) (EvaluationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EvaluationID{}, fmt.Errorf("invalid evaluation ID: %w", err)
	}
	return EvaluationID{value: id}, nil
}

// MustParseEvaluationID parses a string or panics (for tests only)
func MustParseEvaluationID(s string) EvaluationID {
	id, err := ParseEvaluationID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (e EvaluationID) String() string {
	return e.value.String()
}

// IsZero returns true if this is the zero value
func (e EvaluationID) IsZero() bool {
	return e.value == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler
func (e EvaluationID) MarshalText() ([]byte, error) {
	return []byte(e.value.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (e *EvaluationID) UnmarshalText(data []byte) error {
	id, err := ParseEvaluationID(string(data))
	if err != nil {
		return err
	}
	*e = id
	return nil
}
