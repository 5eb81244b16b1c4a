package values

// FindingKind names the check that produced a finding.
type FindingKind string

const (
	KindAllergenMatch        FindingKind = "AllergenMatch"
	KindDietIncompatible     FindingKind = "DietIncompatible"
	KindTextureIncompatible  FindingKind = "TextureIncompatible"
	KindFluidLimitExceeded   FindingKind = "FluidLimitExceeded"
	KindPortionMismatch      FindingKind = "PortionMismatch"
	KindRuleResolutionFailed FindingKind = "RuleResolutionFailed"
	KindItemUnavailable      FindingKind = "ItemUnavailable"
	KindAdvisory             FindingKind = "Advisory"
)

func (k FindingKind) String() string {
	return string(k)
}

// FindingClass says whether a finding blocks a line or only warns.
type FindingClass string

const (
	ClassBlock FindingClass = "block"
	ClassWarn  FindingClass = "warn"
)

// Verdict is the line verdict implied by a single finding of this class.
func (c FindingClass) Verdict() Verdict {
	switch c {
	case ClassBlock:
		return VerdictBlocked
	case ClassWarn:
		return VerdictAllowedWithWarning
	default:
		return VerdictAllowed
	}
}

func (c FindingClass) String() string {
	return string(c)
}
