package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// LineEnv defines the variables available to advisory expressions.
type LineEnv struct {
	Resident ResidentEnv `expr:"resident"`
	Item     ItemEnv     `expr:"item"`
	Quantity int         `expr:"quantity"`
	Note     string      `expr:"note"`
}

// ResidentEnv is the resident half of LineEnv.
type ResidentEnv struct {
	ID                 string   `expr:"id"`
	Diet               string   `expr:"diet"`
	IDDSI              int      `expr:"iddsi"`
	MealSize           string   `expr:"meal_size"`
	FluidRestricted    bool     `expr:"fluid_restricted"`
	FluidRestrictionML int      `expr:"fluid_restriction_ml"`
	Allergens          []string `expr:"allergens"`
}

// ItemEnv is the menu item half of LineEnv.
type ItemEnv struct {
	ID           string   `expr:"id"`
	Name         string   `expr:"name"`
	Category     string   `expr:"category"`
	FluidML      int      `expr:"fluid_ml"`
	PortionGrams int      `expr:"portion_grams"`
	MinIDDSI     int      `expr:"min_iddsi"`
	Allergens    []string `expr:"allergens"`
	Diets        []string `expr:"diets"`
}

// CompiledAdvisory is an advisory with its expression compiled against LineEnv.
type CompiledAdvisory struct {
	Advisory
	program *vm.Program
}

func compileAdvisory(a Advisory) (CompiledAdvisory, error) {
	program, err := expr.Compile(a.When, expr.Env(LineEnv{}), expr.AsBool())
	if err != nil {
		return CompiledAdvisory{}, fmt.Errorf("advisory %s: invalid expression: %w", a.ID, err)
	}
	return CompiledAdvisory{Advisory: a, program: program}, nil
}

// Matches runs the advisory expression.
func (a CompiledAdvisory) Matches(env LineEnv) (bool, error) {
	out, err := expr.Run(a.program, env)
	if err != nil {
		return false, err
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("advisory %s returned %T, expected bool", a.ID, out)
	}
	return matched, nil
}
