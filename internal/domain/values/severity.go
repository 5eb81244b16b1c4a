package values

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// AllergySeverity is the clinical severity recorded against a resident allergy.
// Ordered: mild < moderate < severe < anaphylaxis.
type AllergySeverity struct {
	value AllergySeverityLevel
}

// AllergySeverityLevel is the internal ordinal representation
type AllergySeverityLevel int

const (
	SeverityUnknown     AllergySeverityLevel = 0
	SeverityMild        AllergySeverityLevel = 1
	SeverityModerate    AllergySeverityLevel = 2
	SeveritySevere      AllergySeverityLevel = 3
	SeverityAnaphylaxis AllergySeverityLevel = 4
)

// Predefined severity values
var (
	SevUnknown     = AllergySeverity{SeverityUnknown}
	SevMild        = AllergySeverity{SeverityMild}
	SevModerate    = AllergySeverity{SeverityModerate}
	SevSevere      = AllergySeverity{SeveritySevere}
	SevAnaphylaxis = AllergySeverity{SeverityAnaphylaxis}
)

// NewAllergySeverity parses a severity name. The empty string yields SevUnknown.
func NewAllergySeverity(s string) (AllergySeverity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mild":
		return SevMild, nil
	case "moderate":
		return SevModerate, nil
	case "severe":
		return SevSevere, nil
	case "anaphylaxis":
		return SevAnaphylaxis, nil
	case "":
		return SevUnknown, nil
	default:
		return AllergySeverity{}, fmt.Errorf("invalid allergy severity: %s", s)
	}
}

// MustNewAllergySeverity creates an AllergySeverity or panics
func MustNewAllergySeverity(s string) AllergySeverity {
	sev, err := NewAllergySeverity(s)
	if err != nil {
		panic(err)
	}
	return sev
}

func (s AllergySeverity) String() string {
	switch s.value {
	case SeverityMild:
		return "mild"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	case SeverityAnaphylaxis:
		return "anaphylaxis"
	default:
		return ""
	}
}

// Level returns the ordinal used for sorting findings.
func (s AllergySeverity) Level() int {
	return int(s.value)
}

// IsKnown reports whether the severity is one of the defined levels.
func (s AllergySeverity) IsKnown() bool {
	return s.value != SeverityUnknown
}

// IsHigherThan returns true if this severity is higher than the other
func (s AllergySeverity) IsHigherThan(other AllergySeverity) bool {
	return s.value > other.value
}

// Equals checks if two severities are equal
func (s AllergySeverity) Equals(other AllergySeverity) bool {
	return s.value == other.value
}

// MarshalText implements encoding.TextMarshaler
func (s AllergySeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *AllergySeverity) UnmarshalText(data []byte) error {
	sev, err := NewAllergySeverity(string(data))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Value implements driver.Valuer
func (s AllergySeverity) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner
func (s *AllergySeverity) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s = SevUnknown
		return nil
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into AllergySeverity", value)
	}
}
