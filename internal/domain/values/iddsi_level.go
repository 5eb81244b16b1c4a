package values

import (
	"fmt"
	"strconv"
	"strings"
)

// IDDSILevel is an International Dysphagia Diet Standardisation Initiative
// texture ordinal. Lower levels are more processed: 0 is thin liquid, 7 is
// regular unmodified food.
type IDDSILevel int

const (
	IDDSIThinLiquid IDDSILevel = iota
	IDDSISlightlyThick
	IDDSIMildlyThick
	IDDSIModeratelyThick
	IDDSIPureed
	IDDSIMincedMoist
	IDDSISoftBiteSized
	IDDSIRegular
)

// MinIDDSILevel and MaxIDDSILevel bound the scale.
const (
	MinIDDSILevel = IDDSIThinLiquid
	MaxIDDSILevel = IDDSIRegular
)

var iddsiNames = [...]string{
	"Thin Liquid",
	"Slightly Thick",
	"Mildly Thick",
	"Moderately Thick",
	"Pureed",
	"Minced & Moist",
	"Soft & Bite-Sized",
	"Regular",
}

// ParseIDDSILevel accepts "4", "level_4" or "level4".
func ParseIDDSILevel(s string) (IDDSILevel, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.TrimPrefix(raw, "level")
	raw = strings.TrimPrefix(raw, "_")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid IDDSI level: %q", s)
	}
	level := IDDSILevel(n)
	if err := level.Validate(); err != nil {
		return 0, err
	}
	return level, nil
}

// Validate returns an error if the level is outside 0..7.
func (l IDDSILevel) Validate() error {
	if l < MinIDDSILevel || l > MaxIDDSILevel {
		return fmt.Errorf("invalid IDDSI level: %d (must be %d-%d)", int(l), MinIDDSILevel, MaxIDDSILevel)
	}
	return nil
}

// Ordinal returns the numeric level.
func (l IDDSILevel) Ordinal() int {
	return int(l)
}

// Name returns the standard IDDSI descriptor, or "" when out of range.
func (l IDDSILevel) Name() string {
	if l.Validate() != nil {
		return ""
	}
	return iddsiNames[l]
}

// String renders the level as level_N.
func (l IDDSILevel) String() string {
	return "level_" + strconv.Itoa(int(l))
}

// Permits reports whether an item requiring level req can be served to a
// resident at this level.
func (l IDDSILevel) Permits(req IDDSILevel) bool {
	return req <= l
}
