package values

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// ResidentID is the opaque, stable identifier of a resident.
type ResidentID struct {
	value string
}

// NewResidentID trims and validates a resident identifier
func NewResidentID(id string) (ResidentID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ResidentID{}, fmt.Errorf("resident ID cannot be empty")
	}
	return ResidentID{value: id}, nil
}

// MustNewResidentID creates a ResidentID or panics (for tests/constants)
func MustNewResidentID(id string) ResidentID {
	rid, err := NewResidentID(id)
	if err != nil {
		panic(err)
	}
	return rid
}

func (r ResidentID) String() string {
	return r.value
}

// IsEmpty returns true if this is the zero value
func (r ResidentID) IsEmpty() bool {
	return r.value == ""
}

// MarshalText implements encoding.TextMarshaler
func (r ResidentID) MarshalText() ([]byte, error) {
	return []byte(r.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *ResidentID) UnmarshalText(data []byte) error {
	id, err := NewResidentID(string(data))
	if err != nil {
		return err
	}
	*r = id
	return nil
}

// Value implements driver.Valuer for database/sql
func (r ResidentID) Value() (driver.Value, error) {
	return r.value, nil
}

// Scan implements sql.Scanner for database/sql
func (r *ResidentID) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*r = ResidentID{}
		return nil
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into ResidentID", value)
	}
}
