package values

import (
	"database/sql/driver"
	"fmt"
)

// Verdict is the compliance outcome for an order line or a whole order.
type Verdict string

const (
	// VerdictAllowed means no findings were raised
	VerdictAllowed Verdict = "ALLOWED"
	// VerdictAllowedWithWarning means only warning-class findings were raised
	VerdictAllowedWithWarning Verdict = "ALLOWED_WITH_WARNING"
	// VerdictBlocked means at least one block-class finding was raised
	VerdictBlocked Verdict = "BLOCKED"
)

// Precedence returns the numeric precedence of this verdict.
// Higher values win when verdicts are combined.
//
// Precedence: Blocked (2) > AllowedWithWarning (1) > Allowed (0)
func (v Verdict) Precedence() int {
	switch v {
	case VerdictBlocked:
		return 2
	case VerdictAllowedWithWarning:
		return 1
	case VerdictAllowed:
		return 0
	default:
		return -1
	}
}

// IsBlocked returns true if the verdict prevents submission
func (v Verdict) IsBlocked() bool {
	return v == VerdictBlocked
}

// HasWarning returns true if the verdict carries warnings but permits submission
func (v Verdict) HasWarning() bool {
	return v == VerdictAllowedWithWarning
}

// Validate returns an error if the verdict value is invalid
func (v Verdict) Validate() error {
	switch v {
	case VerdictAllowed, VerdictAllowedWithWarning, VerdictBlocked:
		return nil
	default:
		return fmt.Errorf("invalid verdict: %s", v)
	}
}

// Value implements driver.Valuer for database/sql
func (v Verdict) Value() (driver.Value, error) {
	return string(v), nil
}

// Scan implements sql.Scanner for database/sql
func (v *Verdict) Scan(value any) error {
	var verdict Verdict
	switch s := value.(type) {
	case nil:
		*v = ""
		return nil
	case string:
		verdict = Verdict(s)
	case []byte:
		verdict = Verdict(s)
	default:
		return fmt.Errorf("cannot scan %T into Verdict", value)
	}
	if err := verdict.Validate(); err != nil {
		return err
	}
	*v = verdict
	return nil
}
