package services

import (
	"fmt"
	"sort"

	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// AllergenMatcher finds resident allergies triggered by a menu item's
// allergen tags, walking the subsumption closure of each tag.
type AllergenMatcher struct{}

// NewAllergenMatcher creates a new allergen matcher
func NewAllergenMatcher() *AllergenMatcher {
	return &AllergenMatcher{}
}

type resolvedTag struct {
	raw       string
	canonical string
}

// Match returns one finding per matched resident allergy, ordered by
// descending severity then allergen id, followed by any resolution failures.
//
// Business Rule: a hard-restriction match blocks the line regardless of
// severity; any other match is a warning. Identifiers that do not resolve are
// still compared literally and additionally raise RuleResolutionFailed.
// With no allergies nothing can match, so tags are not resolved and unknown
// tags raise no findings.
func (m *AllergenMatcher) Match(allergies []entities.Allergy, tags []string, snap *rules.Snapshot) []evaluation.Finding {
	if len(allergies) == 0 {
		return nil
	}

	var failures []evaluation.Finding

	resolved := make([]resolvedTag, 0, len(tags))
	for _, tag := range tags {
		rt := resolvedTag{raw: tag, canonical: rules.NormalizeID(tag)}
		if rule, err := snap.ResolveAllergen(tag); err == nil {
			rt.canonical = rule.ID
		} else {
			failures = append(failures, resolutionFailure(rules.KindAllergen, rt.canonical, snap,
				fmt.Sprintf("item allergen tag %q is not defined in the rule set", tag)))
		}
		resolved = append(resolved, rt)
	}

	var matches []evaluation.Finding
	for _, allergy := range allergies {
		id := rules.NormalizeID(allergy.Allergen)
		version := snap.SemVer().String()
		if rule, err := snap.ResolveAllergen(allergy.Allergen); err == nil {
			id = rule.ID
			version = rule.Version
		} else {
			failures = append(failures, resolutionFailure(rules.KindAllergen, id, snap,
				fmt.Sprintf("resident allergen %q is not defined in the rule set; subsumption cannot be checked", allergy.Allergen)))
		}

		tag, ok := matchingTag(id, resolved, snap)
		if !ok {
			continue
		}
		matches = append(matches, allergenFinding(allergy, id, version, tag))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Severity != matches[j].Severity {
			return severityLevel(matches[i].Severity) > severityLevel(matches[j].Severity)
		}
		return matches[i].Allergen < matches[j].Allergen
	})
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Source.ID < failures[j].Source.ID
	})

	return append(matches, failures...)
}

// matchingTag picks the smallest canonical tag covered by allergen so the
// result does not depend on tag order.
func matchingTag(allergen string, tags []resolvedTag, snap *rules.Snapshot) (resolvedTag, bool) {
	var best resolvedTag
	found := false
	for _, t := range tags {
		if !snap.Subsumes(allergen, t.canonical) {
			continue
		}
		if !found || t.canonical < best.canonical {
			best = t
			found = true
		}
	}
	return best, found
}

func allergenFinding(allergy entities.Allergy, allergen, version string, tag resolvedTag) evaluation.Finding {
	class := values.ClassWarn
	restriction := "warning only"
	if allergy.HardRestriction {
		class = values.ClassBlock
		restriction = "hard restriction"
	}

	msg := fmt.Sprintf("contains %s (resident allergy: %s, %s, %s)",
		tag.canonical, allergen, allergy.Severity, restriction)
	if tag.canonical != allergen {
		msg = fmt.Sprintf("contains %s, covered by resident allergy %s (%s, %s)",
			tag.canonical, allergen, allergy.Severity, restriction)
	}

	return evaluation.Finding{
		Kind:            values.KindAllergenMatch,
		Class:           class,
		Message:         msg,
		Source:          evaluation.RuleRef{Kind: rules.KindAllergen, ID: allergen, Version: version},
		Allergen:        allergen,
		MatchedTag:      tag.canonical,
		Severity:        allergy.Severity.String(),
		HardRestriction: allergy.HardRestriction,
	}
}

func severityLevel(s string) int {
	sev, err := values.NewAllergySeverity(s)
	if err != nil {
		return 0
	}
	return sev.Level()
}

func resolutionFailure(kind, id string, snap *rules.Snapshot, msg string) evaluation.Finding {
	return evaluation.Finding{
		Kind:    values.KindRuleResolutionFailed,
		Class:   values.ClassBlock,
		Message: msg,
		Source:  evaluation.RuleRef{Kind: kind, ID: id, Version: snap.Version()},
	}
}
