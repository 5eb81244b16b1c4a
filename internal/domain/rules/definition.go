// Package rules holds the rule set: diet types, IDDSI texture levels,
// allergen taxonomy, portion policy and advisories. A Definition is the
// authored form; Compile turns it into an immutable Snapshot that
// evaluations read without locking.
package rules

import "slices"

// Definition is a rule set as authored in a rule set document.
type Definition struct {
	Version     string         `yaml:"version" json:"version"`
	Name        string         `yaml:"name,omitempty" json:"name,omitempty"`
	DietTypes   []DietTypeRule `yaml:"diet_types" json:"diet_types"`
	IDDSILevels []IDDSIRule    `yaml:"iddsi_levels" json:"iddsi_levels"`
	Allergens   []AllergenRule `yaml:"allergens" json:"allergens"`
	Portions    PortionPolicy  `yaml:"portions,omitempty" json:"portions,omitempty"`
	Advisories  []Advisory     `yaml:"advisories,omitempty" json:"advisories,omitempty"`
}

// DietTypeRule describes one diet. A resident on this diet may receive items
// tagged with the diet itself or with any diet listed in Accepts. Accepts is
// not transitive.
type DietTypeRule struct {
	ID              string   `yaml:"id" json:"id"`
	Name            string   `yaml:"name,omitempty" json:"name,omitempty"`
	Accepts         []string `yaml:"accepts,omitempty" json:"accepts,omitempty"`
	AcceptsUntagged bool     `yaml:"accepts_untagged,omitempty" json:"accepts_untagged,omitempty"`
	Version         string   `yaml:"version,omitempty" json:"version,omitempty"`
}

// IDDSIRule names one texture level known to the rule set.
type IDDSIRule struct {
	Level   int    `yaml:"level" json:"level"`
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// AllergenRule is a node in the allergen taxonomy. Subsumes lists the more
// specific allergens covered by this one ("shellfish" subsumes "shrimp").
type AllergenRule struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Subsumes []string `yaml:"subsumes,omitempty" json:"subsumes,omitempty"`
	Aliases  []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Version  string   `yaml:"version,omitempty" json:"version,omitempty"`
}

// PortionPolicy maps meal sizes to acceptable portion ranges per category.
// Keys are meal size and category names.
type PortionPolicy struct {
	Defaults map[string]int                     `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	Limits   map[string]map[string]PortionRange `yaml:"limits,omitempty" json:"limits,omitempty"`
	Version  string                             `yaml:"version,omitempty" json:"version,omitempty"`
}

// PortionRange bounds a portion in grams. A zero Max is unbounded.
type PortionRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max,omitempty" json:"max,omitempty"`
}

// Contains reports whether grams falls inside the range.
func (r PortionRange) Contains(grams int) bool {
	if grams < r.Min {
		return false
	}
	return r.Max == 0 || grams <= r.Max
}

// Advisory raises a warning when its expression holds for an order line.
type Advisory struct {
	ID      string `yaml:"id" json:"id"`
	When    string `yaml:"when" json:"when"`
	Message string `yaml:"message" json:"message"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// Rule kinds used in finding sources.
const (
	KindDietType   = "diet_type"
	KindIDDSILevel = "iddsi_level"
	KindAllergen   = "allergen"
	KindPortion    = "portion"
	KindFluid      = "fluid"
	KindAdvisory   = "advisory"
	KindMenu       = "menu"
)

func (r DietTypeRule) clone() DietTypeRule {
	r.Accepts = slices.Clone(r.Accepts)
	return r
}

func (r AllergenRule) clone() AllergenRule {
	r.Subsumes = slices.Clone(r.Subsumes)
	r.Aliases = slices.Clone(r.Aliases)
	return r
}

func (d Definition) clone() Definition {
	out := d
	out.DietTypes = make([]DietTypeRule, len(d.DietTypes))
	for i, r := range d.DietTypes {
		out.DietTypes[i] = r.clone()
	}
	out.IDDSILevels = append([]IDDSIRule(nil), d.IDDSILevels...)
	out.Allergens = make([]AllergenRule, len(d.Allergens))
	for i, r := range d.Allergens {
		out.Allergens[i] = r.clone()
	}
	out.Advisories = append([]Advisory(nil), d.Advisories...)
	if d.Portions.Defaults != nil {
		out.Portions.Defaults = make(map[string]int, len(d.Portions.Defaults))
		for k, v := range d.Portions.Defaults {
			out.Portions.Defaults[k] = v
		}
	}
	if d.Portions.Limits != nil {
		out.Portions.Limits = make(map[string]map[string]PortionRange, len(d.Portions.Limits))
		for size, byCat := range d.Portions.Limits {
			inner := make(map[string]PortionRange, len(byCat))
			for k, v := range byCat {
				inner[k] = v
			}
			out.Portions.Limits[size] = inner
		}
	}
	return out
}
