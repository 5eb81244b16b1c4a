package entities

import (
	"fmt"
	"math"
	"strings"
)

// Input ceilings. Anything larger is a data-entry error, and rejecting it
// keeps fluid arithmetic far from int overflow.
const (
	MaxLineQuantity    = 100
	MaxItemFluidML     = 10_000
	MaxFluidConsumedML = 100_000
)

// OrderLine is one requested item.
type OrderLine struct {
	ID   string
	Item MenuItem
	Note string
	// Quantity of servings; zero is read as one.
	Quantity int
}

// Units returns the number of servings charged for this line.
func (l *OrderLine) Units() int {
	if l.Quantity <= 0 {
		return 1
	}
	return l.Quantity
}

// FluidML is the fluid volume this line adds to the running total. The
// product saturates at math.MaxInt instead of wrapping.
func (l *OrderLine) FluidML() int {
	units := l.Units()
	if l.Item.FluidML > 0 && units > math.MaxInt/l.Item.FluidML {
		return math.MaxInt
	}
	return l.Item.FluidML * units
}

// Order is an ordered sequence of lines for one resident.
type Order struct {
	ID    string
	Lines []OrderLine
	// FluidConsumedML is fluid already taken against today's allowance.
	FluidConsumedML int
}

// Validate checks the order's structural invariants.
func (o *Order) Validate() error {
	var probs problems
	o.validate(&probs)
	return probs.err()
}

func (o *Order) validate(probs *problems) {
	if len(o.Lines) == 0 {
		probs.add("order", "order must contain at least one line")
	}
	switch {
	case o.FluidConsumedML < 0:
		probs.add("order", fmt.Sprintf("fluid consumed cannot be negative: %d", o.FluidConsumedML))
	case o.FluidConsumedML > MaxFluidConsumedML:
		probs.add("order", fmt.Sprintf("fluid consumed %d mL exceeds the %d mL ceiling", o.FluidConsumedML, MaxFluidConsumedML))
	}

	seen := make(map[string]bool, len(o.Lines))
	for i := range o.Lines {
		line := &o.Lines[i]
		prefix := fmt.Sprintf("line %d", i)
		id := strings.TrimSpace(line.ID)
		switch {
		case id == "":
			probs.add(prefix, "line ID cannot be empty")
		case seen[id]:
			probs.add(prefix, fmt.Sprintf("duplicate line ID %s", id))
		}
		seen[id] = true
		switch {
		case line.Quantity < 0:
			probs.add(prefix, fmt.Sprintf("quantity cannot be negative: %d", line.Quantity))
		case line.Quantity > MaxLineQuantity:
			probs.add(prefix, fmt.Sprintf("quantity %d exceeds the maximum of %d", line.Quantity, MaxLineQuantity))
		}
		line.Item.validate(prefix, probs)
	}
}

// ValidateEvaluationInput checks a profile and order together and reports all
// problems at once. The returned error wraps ErrInputMalformed.
func ValidateEvaluationInput(profile *DietaryProfile, order *Order) error {
	var probs problems
	if profile == nil {
		probs.add("profile", "profile is required")
	} else {
		profile.validate(&probs)
	}
	if order == nil {
		probs.add("order", "order is required")
	} else {
		order.validate(&probs)
	}
	return probs.err()
}
