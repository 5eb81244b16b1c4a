package entities

import (
	"errors"
	"strings"
)

// ErrInputMalformed marks a structurally invalid profile or order.
var ErrInputMalformed = errors.New("input malformed")

// MalformedError lists every structural problem found in an evaluation input.
type MalformedError struct {
	Problems []string
}

func (e *MalformedError) Error() string {
	if len(e.Problems) == 1 {
		return "input malformed: " + e.Problems[0]
	}
	return "input malformed:\n  - " + strings.Join(e.Problems, "\n  - ")
}

func (e *MalformedError) Unwrap() error {
	return ErrInputMalformed
}

// problems accumulates validation failures across an aggregate.
type problems []string

func (p *problems) add(prefix, msg string) {
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	*p = append(*p, msg)
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &MalformedError{Problems: p}
}
