package rules

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
	"github.com/mealguard-dev/mealguard/internal/fingerprint"
)

// ErrNotFound is returned when an identifier does not resolve to a rule.
var ErrNotFound = errors.New("rule not found")

// Snapshot is an immutable, compiled rule set. Updates replace the whole
// snapshot; nothing inside one is ever mutated after Compile returns.
type Snapshot struct {
	def     Definition
	version *semver.Version
	token   string
	digest  fingerprint.Digest

	diets       map[string]DietTypeRule
	dietAccepts map[string]map[string]struct{}
	levels      map[values.IDDSILevel]IDDSIRule
	allergens   map[string]*AllergenRule
	aliases     map[string]string
	ancestors   map[string]map[string]struct{}

	portionDefaults map[values.Category]int
	portionLimits   map[values.MealSize]map[values.Category]PortionRange
	portionVersion  string

	advisories []CompiledAdvisory
}

// NormalizeID lowercases and trims an identifier for lookups.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Compile validates a definition and builds a Snapshot.
func Compile(def Definition) (*Snapshot, error) {
	def = def.clone()

	version, err := semver.NewVersion(strings.TrimSpace(def.Version))
	if err != nil {
		return nil, fmt.Errorf("invalid rule set version %q: %w", def.Version, err)
	}
	def.Version = version.String()

	s := &Snapshot{
		version:         version,
		diets:           make(map[string]DietTypeRule, len(def.DietTypes)),
		dietAccepts:     make(map[string]map[string]struct{}, len(def.DietTypes)),
		levels:          make(map[values.IDDSILevel]IDDSIRule, len(def.IDDSILevels)),
		allergens:       make(map[string]*AllergenRule, len(def.Allergens)),
		aliases:         make(map[string]string),
		portionDefaults: make(map[values.Category]int),
		portionLimits:   make(map[values.MealSize]map[values.Category]PortionRange),
	}

	if err := s.compileDietTypes(def.DietTypes); err != nil {
		return nil, err
	}
	if err := s.compileLevels(def.IDDSILevels); err != nil {
		return nil, err
	}
	if err := s.compileAllergens(def.Allergens); err != nil {
		return nil, err
	}
	if err := s.compilePortions(&def.Portions); err != nil {
		return nil, err
	}
	if err := s.compileAdvisories(def.Advisories); err != nil {
		return nil, err
	}

	s.def = def
	s.digest, err = fingerprint.Of(fingerprint.RuleSet, def)
	if err != nil {
		return nil, err
	}
	tokenVersion, err := version.SetMetadata(s.digest.Short(12))
	if err != nil {
		return nil, fmt.Errorf("build version token: %w", err)
	}
	s.token = tokenVersion.String()

	return s, nil
}

// MustCompile is Compile for fixtures; it panics on error.
func MustCompile(def Definition) *Snapshot {
	s, err := Compile(def)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Snapshot) ruleVersion(v string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return s.version.String()
}

func (s *Snapshot) compileDietTypes(rules []DietTypeRule) error {
	for i := range rules {
		r := &rules[i]
		r.ID = NormalizeID(r.ID)
		if r.ID == "" {
			return fmt.Errorf("diet type %d: id cannot be empty", i)
		}
		if _, dup := s.diets[r.ID]; dup {
			return fmt.Errorf("duplicate diet type: %s", r.ID)
		}
		r.Version = s.ruleVersion(r.Version)
		s.diets[r.ID] = *r
	}
	for i := range rules {
		r := &rules[i]
		accepts := make(map[string]struct{}, len(r.Accepts)+1)
		accepts[r.ID] = struct{}{}
		for j, a := range r.Accepts {
			a = NormalizeID(a)
			if _, ok := s.diets[a]; !ok {
				return fmt.Errorf("diet type %s accepts unknown diet type %s", r.ID, a)
			}
			r.Accepts[j] = a
			accepts[a] = struct{}{}
		}
		s.diets[r.ID] = *r
		s.dietAccepts[r.ID] = accepts
	}
	return nil
}

func (s *Snapshot) compileLevels(rules []IDDSIRule) error {
	for i := range rules {
		r := &rules[i]
		level := values.IDDSILevel(r.Level)
		if err := level.Validate(); err != nil {
			return fmt.Errorf("iddsi level %d: %w", i, err)
		}
		if _, dup := s.levels[level]; dup {
			return fmt.Errorf("duplicate IDDSI level: %d", r.Level)
		}
		if strings.TrimSpace(r.Name) == "" {
			r.Name = level.Name()
		}
		r.Version = s.ruleVersion(r.Version)
		s.levels[level] = *r
	}
	return nil
}

func (s *Snapshot) compileAllergens(rules []AllergenRule) error {
	for i := range rules {
		r := &rules[i]
		r.ID = NormalizeID(r.ID)
		if r.ID == "" {
			return fmt.Errorf("allergen %d: id cannot be empty", i)
		}
		if owner, dup := s.aliases[r.ID]; dup {
			return fmt.Errorf("allergen %s already defined by %s", r.ID, owner)
		}
		r.Version = s.ruleVersion(r.Version)
		s.aliases[r.ID] = r.ID
		s.allergens[r.ID] = r
	}
	for i := range rules {
		r := &rules[i]
		for j, alias := range r.Aliases {
			alias = NormalizeID(alias)
			if alias == "" {
				return fmt.Errorf("allergen %s: alias cannot be empty", r.ID)
			}
			if owner, dup := s.aliases[alias]; dup {
				return fmt.Errorf("allergen alias %s already defined by %s", alias, owner)
			}
			r.Aliases[j] = alias
			s.aliases[alias] = r.ID
		}
		r.Subsumes = normalizeSet(r.Subsumes)
	}

	ancestors, err := buildAncestors(s.allergens)
	if err != nil {
		return err
	}
	s.ancestors = ancestors
	return nil
}

func (s *Snapshot) compilePortions(p *PortionPolicy) error {
	s.portionVersion = s.ruleVersion(p.Version)
	for name, grams := range p.Defaults {
		cat, err := values.ParseCategory(name)
		if err != nil {
			return fmt.Errorf("portion defaults: %w", err)
		}
		if grams <= 0 {
			return fmt.Errorf("portion default for %s must be positive", cat)
		}
		s.portionDefaults[cat] = grams
	}
	for sizeName, byCat := range p.Limits {
		size, err := values.ParseMealSize(sizeName)
		if err != nil {
			return fmt.Errorf("portion limits: %w", err)
		}
		limits := make(map[values.Category]PortionRange, len(byCat))
		for catName, rng := range byCat {
			cat, err := values.ParseCategory(catName)
			if err != nil {
				return fmt.Errorf("portion limits for %s: %w", size, err)
			}
			if rng.Min < 0 || rng.Max < 0 || (rng.Max > 0 && rng.Min > rng.Max) {
				return fmt.Errorf("portion limits for %s/%s: invalid range %d-%d", size, cat, rng.Min, rng.Max)
			}
			limits[cat] = rng
		}
		s.portionLimits[size] = limits
	}
	return nil
}

func (s *Snapshot) compileAdvisories(advisories []Advisory) error {
	seen := make(map[string]bool, len(advisories))
	for i := range advisories {
		a := &advisories[i]
		a.ID = NormalizeID(a.ID)
		if a.ID == "" {
			return fmt.Errorf("advisory %d: id cannot be empty", i)
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate advisory: %s", a.ID)
		}
		seen[a.ID] = true
		if strings.TrimSpace(a.Message) == "" {
			return fmt.Errorf("advisory %s: message cannot be empty", a.ID)
		}
		a.Version = s.ruleVersion(a.Version)
		compiled, err := compileAdvisory(*a)
		if err != nil {
			return err
		}
		s.advisories = append(s.advisories, compiled)
	}
	return nil
}

func normalizeSet(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		id = NormalizeID(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Version returns the snapshot's version token: the rule set's semantic
// version with the content digest as build metadata.
func (s *Snapshot) Version() string {
	return s.token
}

// SemVer returns the authored rule set version.
func (s *Snapshot) SemVer() *semver.Version {
	return s.version
}

// Digest returns the content digest of the normalized definition.
func (s *Snapshot) Digest() fingerprint.Digest {
	return s.digest
}

// Name returns the rule set's display name.
func (s *Snapshot) Name() string {
	return s.def.Name
}

// Definition returns a copy of the normalized definition.
func (s *Snapshot) Definition() Definition {
	return s.def.clone()
}

// ResolveDietType looks up a diet type by id. The rule is a copy.
func (s *Snapshot) ResolveDietType(id string) (DietTypeRule, error) {
	if r, ok := s.diets[NormalizeID(id)]; ok {
		return r.clone(), nil
	}
	return DietTypeRule{}, fmt.Errorf("diet type %q: %w", id, ErrNotFound)
}

// DietAccepts reports whether a resident on diet may receive an item carrying
// tag. diet must be a resolved diet type id.
func (s *Snapshot) DietAccepts(diet, tag string) bool {
	_, ok := s.dietAccepts[diet][NormalizeID(tag)]
	return ok
}

// ResolveIDDSILevel looks up a texture level.
func (s *Snapshot) ResolveIDDSILevel(level values.IDDSILevel) (IDDSIRule, error) {
	if r, ok := s.levels[level]; ok {
		return r, nil
	}
	return IDDSIRule{}, fmt.Errorf("IDDSI level %d: %w", int(level), ErrNotFound)
}

// ResolveAllergen looks up an allergen by id or alias and returns a copy of
// the canonical rule.
func (s *Snapshot) ResolveAllergen(id string) (AllergenRule, error) {
	if canonical, ok := s.aliases[NormalizeID(id)]; ok {
		return s.allergens[canonical].clone(), nil
	}
	return AllergenRule{}, fmt.Errorf("allergen %q: %w", id, ErrNotFound)
}

// Subsumes reports whether ancestor equals or transitively subsumes
// descendant. Both must be canonical allergen ids.
func (s *Snapshot) Subsumes(ancestor, descendant string) bool {
	if ancestor == descendant {
		return true
	}
	_, ok := s.ancestors[descendant][ancestor]
	return ok
}

// PortionFor returns the portion to check for an item and the range allowed
// for the meal size. ok is false when no check applies.
func (s *Snapshot) PortionFor(size values.MealSize, cat values.Category, override *int) (grams int, rng PortionRange, ok bool) {
	rng, ok = s.portionLimits[size][cat]
	if !ok {
		return 0, PortionRange{}, false
	}
	if override != nil {
		return *override, rng, true
	}
	grams, ok = s.portionDefaults[cat]
	return grams, rng, ok
}

// PortionVersion is the version token of the portion policy.
func (s *Snapshot) PortionVersion() string {
	return s.portionVersion
}

// Advisories returns the compiled advisories in authored order. The slice is
// a copy.
func (s *Snapshot) Advisories() []CompiledAdvisory {
	return slices.Clone(s.advisories)
}

// DietTypeIDs returns the known diet type ids, sorted.
func (s *Snapshot) DietTypeIDs() []string {
	ids := make([]string, 0, len(s.diets))
	for id := range s.diets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AllergenIDs returns the canonical allergen ids, sorted.
func (s *Snapshot) AllergenIDs() []string {
	ids := make([]string, 0, len(s.allergens))
	for id := range s.allergens {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ancestors returns the allergens that transitively subsume id, sorted.
func (s *Snapshot) Ancestors(id string) []string {
	set := s.ancestors[NormalizeID(id)]
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
