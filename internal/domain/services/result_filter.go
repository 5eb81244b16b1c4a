package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
)

// ResultEnv defines the variables available during result filter evaluation.
type ResultEnv struct {
	Verdict      string   `expr:"verdict"`
	Resident     string   `expr:"resident"`
	Order        string   `expr:"order"`
	RuleSet      string   `expr:"ruleset"`
	Lines        int      `expr:"lines"`
	BlockedLines int      `expr:"blocked_lines"`
	WarningLines int      `expr:"warning_lines"`
	Kinds        []string `expr:"kinds"`
	Allergens    []string `expr:"allergens"`
}

// ResultFilter selects evaluation results with an expr expression such as
// `verdict == "BLOCKED" && "FluidLimitExceeded" in kinds`.
type ResultFilter struct {
	program *vm.Program
}

// NewResultFilter compiles a filter expression. An empty expression matches
// everything.
func NewResultFilter(expression string) (*ResultFilter, error) {
	if expression == "" {
		return &ResultFilter{}, nil
	}
	program, err := expr.Compile(expression, expr.Env(ResultEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &ResultFilter{program: program}, nil
}

// Matches reports whether the result passes the filter.
func (f *ResultFilter) Matches(result *evaluation.Result) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, resultEnv(result))
	if err != nil {
		return false, fmt.Errorf("filter evaluation failed: %w", err)
	}
	matched, _ := out.(bool)
	return matched, nil
}

func resultEnv(r *evaluation.Result) ResultEnv {
	env := ResultEnv{
		Verdict:      string(r.Verdict),
		Resident:     r.ResidentID,
		Order:        r.OrderID,
		RuleSet:      r.RuleSetVersion,
		Lines:        r.Summary.TotalLines,
		BlockedLines: r.Summary.BlockedLines,
		WarningLines: r.Summary.WarningLines,
	}
	kinds := make(map[string]bool)
	allergens := make(map[string]bool)
	for _, f := range r.Findings() {
		if !kinds[string(f.Kind)] {
			kinds[string(f.Kind)] = true
			env.Kinds = append(env.Kinds, string(f.Kind))
		}
		if f.Allergen != "" && !allergens[f.Allergen] {
			allergens[f.Allergen] = true
			env.Allergens = append(env.Allergens, f.Allergen)
		}
	}
	return env
}
