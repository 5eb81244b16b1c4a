package services

import (
	"fmt"
	"strings"

	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// DietTextureChecker decides whether an item suits the resident's diet type
// and IDDSI texture level. Every failure it reports is block-class.
type DietTextureChecker struct{}

// NewDietTextureChecker creates a new diet and texture checker
func NewDietTextureChecker() *DietTextureChecker {
	return &DietTextureChecker{}
}

// Check returns diet findings followed by texture findings.
func (c *DietTextureChecker) Check(profile *entities.DietaryProfile, item *entities.MenuItem, snap *rules.Snapshot) []evaluation.Finding {
	var findings []evaluation.Finding
	findings = append(findings, c.checkDiet(profile.DietType, item, snap)...)
	findings = append(findings, c.checkTexture(profile.IDDSILevel, item, snap)...)
	return findings
}

// checkDiet applies the compatibility graph. An item is acceptable when one of
// its diet tags is the resident's diet or is listed in that diet's accepts.
// Untagged items are acceptable only to diets that accept untagged items.
// Unknown tags on the item simply never match.
func (c *DietTextureChecker) checkDiet(dietType string, item *entities.MenuItem, snap *rules.Snapshot) []evaluation.Finding {
	diet, err := snap.ResolveDietType(dietType)
	if err != nil {
		return []evaluation.Finding{resolutionFailure(rules.KindDietType, rules.NormalizeID(dietType), snap,
			fmt.Sprintf("diet type %q is not defined in the rule set; item cannot be cleared", dietType))}
	}

	if len(item.DietTags) == 0 {
		if diet.AcceptsUntagged {
			return nil
		}
		return []evaluation.Finding{dietFinding(diet,
			fmt.Sprintf("%s declares no compatible diets; %s diet requires explicit tagging", item.DisplayName(), diet.ID))}
	}

	for _, tag := range item.DietTags {
		if snap.DietAccepts(diet.ID, tag) {
			return nil
		}
	}
	return []evaluation.Finding{dietFinding(diet,
		fmt.Sprintf("%s is not compatible with %s diet (item diets: %s)", item.DisplayName(), diet.ID, strings.Join(item.DietTags, ", ")))}
}

func dietFinding(diet rules.DietTypeRule, msg string) evaluation.Finding {
	return evaluation.Finding{
		Kind:    values.KindDietIncompatible,
		Class:   values.ClassBlock,
		Message: msg,
		Source:  evaluation.RuleRef{Kind: rules.KindDietType, ID: diet.ID, Version: diet.Version},
	}
}

// checkTexture requires the item's minimum IDDSI level to be at or below the
// resident's level. Levels missing from the rule set raise resolution
// failures but the numeric comparison is still reported.
func (c *DietTextureChecker) checkTexture(level values.IDDSILevel, item *entities.MenuItem, snap *rules.Snapshot) []evaluation.Finding {
	var findings []evaluation.Finding

	residentRule, residentErr := snap.ResolveIDDSILevel(level)
	if residentErr != nil {
		findings = append(findings, resolutionFailure(rules.KindIDDSILevel, level.String(), snap,
			fmt.Sprintf("resident IDDSI level %d is not defined in the rule set", level.Ordinal())))
	}
	if _, err := snap.ResolveIDDSILevel(item.MinIDDSI); err != nil && item.MinIDDSI != level {
		findings = append(findings, resolutionFailure(rules.KindIDDSILevel, item.MinIDDSI.String(), snap,
			fmt.Sprintf("item IDDSI level %d is not defined in the rule set", item.MinIDDSI.Ordinal())))
	}

	if level.Permits(item.MinIDDSI) {
		return findings
	}

	version := residentRule.Version
	if residentErr != nil {
		version = snap.Version()
	}
	findings = append(findings, evaluation.Finding{
		Kind:  values.KindTextureIncompatible,
		Class: values.ClassBlock,
		Message: fmt.Sprintf("%s requires IDDSI level %d (%s); resident is limited to level %d (%s)",
			item.DisplayName(), item.MinIDDSI.Ordinal(), item.MinIDDSI.Name(), level.Ordinal(), level.Name()),
		Source: evaluation.RuleRef{Kind: rules.KindIDDSILevel, ID: level.String(), Version: version},
	})
	return findings
}
