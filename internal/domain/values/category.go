package values

import (
	"fmt"
	"strings"
)

// Category classifies a menu item for portion policy.
type Category string

const (
	CategoryMain     Category = "main"
	CategorySoup     Category = "soup"
	CategorySandwich Category = "sandwich"
	CategorySalad    Category = "salad"
	CategoryDessert  Category = "dessert"
	CategoryBeverage Category = "beverage"
	CategoryOther    Category = "other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryMain, CategorySoup, CategorySandwich, CategorySalad,
	CategoryDessert, CategoryBeverage, CategoryOther,
}

// ParseCategory normalizes a category name. Empty defaults to other.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return CategoryOther, nil
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate returns an error for unknown categories
func (c Category) Validate() error {
	for _, known := range Categories {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("invalid category: %q", string(c))
}

func (c Category) String() string {
	return string(c)
}
