package values

import (
	"fmt"
	"strings"
)

// MealSize is the resident's portion policy.
type MealSize string

const (
	MealSizeSmall   MealSize = "small"
	MealSizeRegular MealSize = "regular"
	MealSizeLarge   MealSize = "large"
)

// ParseMealSize normalizes a meal size. "medium" is accepted as regular and the
// empty string defaults to regular.
func ParseMealSize(s string) (MealSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return MealSizeSmall, nil
	case "regular", "medium", "":
		return MealSizeRegular, nil
	case "large":
		return MealSizeLarge, nil
	default:
		return "", fmt.Errorf("invalid meal size: %s", s)
	}
}

// Validate returns an error if the meal size is not a canonical value
func (m MealSize) Validate() error {
	switch m {
	case MealSizeSmall, MealSizeRegular, MealSizeLarge:
		return nil
	default:
		return fmt.Errorf("invalid meal size: %q", string(m))
	}
}

func (m MealSize) String() string {
	return string(m)
}
