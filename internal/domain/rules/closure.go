package rules

import (
	"fmt"
	"sort"
)

// buildAncestors computes, for every allergen, the set of allergens that
// subsume it directly or transitively. Cycles are rejected.
//
// Edges run from the subsuming allergen to the subsumed one. Kahn's algorithm
// peels allergens with no remaining parents level by level; anything left over
// sits on a cycle. Ancestors are then accumulated in topological order so each
// node's set is complete before its children read it.
func buildAncestors(allergens map[string]*AllergenRule) (map[string]map[string]struct{}, error) {
	parents := make(map[string][]string, len(allergens))
	inDegree := make(map[string]int, len(allergens))
	for id := range allergens {
		inDegree[id] = 0
	}
	for id, rule := range allergens {
		for _, child := range rule.Subsumes {
			if _, ok := allergens[child]; !ok {
				return nil, fmt.Errorf("allergen %s subsumes unknown allergen %s", id, child)
			}
			if child == id {
				return nil, fmt.Errorf("allergen %s subsumes itself", id)
			}
			parents[child] = append(parents[child], id)
			inDegree[child]++
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	ancestors := make(map[string]map[string]struct{}, len(allergens))
	processed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++

		set := make(map[string]struct{})
		for _, p := range parents[id] {
			set[p] = struct{}{}
			for a := range ancestors[p] {
				set[a] = struct{}{}
			}
		}
		ancestors[id] = set

		children := allergens[id].Subsumes
		for _, child := range children {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if processed < len(allergens) {
		var remaining []string
		for id, deg := range inDegree {
			if deg > 0 {
				remaining = append(remaining, id)
			}
		}
		sort.Strings(remaining)
		return nil, fmt.Errorf("circular subsumption detected among allergens: %v", remaining)
	}

	return ancestors, nil
}
