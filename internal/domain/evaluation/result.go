// Package evaluation holds the immutable outcome of checking one order.
package evaluation

import (
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

// RuleRef identifies the rule that produced a finding.
type RuleRef struct {
	Kind    string `json:"kind" yaml:"kind"`
	ID      string `json:"id" yaml:"id"`
	Version string `json:"version" yaml:"version"`
}

// Finding is one diagnostic fact attached to an order line.
type Finding struct {
	Kind    values.FindingKind  `json:"kind" yaml:"kind"`
	Class   values.FindingClass `json:"class" yaml:"class"`
	Message string              `json:"message" yaml:"message"`
	Source  RuleRef             `json:"source" yaml:"source"`

	// Allergen match details
	Allergen        string `json:"allergen,omitempty" yaml:"allergen,omitempty"`
	MatchedTag      string `json:"matched_tag,omitempty" yaml:"matched_tag,omitempty"`
	Severity        string `json:"severity,omitempty" yaml:"severity,omitempty"`
	HardRestriction bool   `json:"hard_restriction,omitempty" yaml:"hard_restriction,omitempty"`

	// RemainingML is the fluid allowance left before this line was charged.
	RemainingML *int `json:"remaining_ml,omitempty" yaml:"remaining_ml,omitempty"`
}

// IsBlocking returns true for block-class findings
func (f *Finding) IsBlocking() bool {
	return f.Class == values.ClassBlock
}

// LineResult is the verdict for one order line.
type LineResult struct {
	LineID   string         `json:"line_id" yaml:"line_id"`
	ItemID   string         `json:"item_id" yaml:"item_id"`
	ItemName string         `json:"item_name,omitempty" yaml:"item_name,omitempty"`
	Index    int            `json:"index" yaml:"index"`
	Verdict  values.Verdict `json:"verdict" yaml:"verdict"`
	Findings []Finding      `json:"findings" yaml:"findings"`
}

// HasFinding reports whether the line carries a finding of the given kind.
func (l *LineResult) HasFinding(kind values.FindingKind) bool {
	for i := range l.Findings {
		if l.Findings[i].Kind == kind {
			return true
		}
	}
	return false
}

// Summary provides aggregate counts over the lines.
type Summary struct {
	TotalLines     int `json:"total_lines" yaml:"total_lines"`
	AllowedLines   int `json:"allowed_lines" yaml:"allowed_lines"`
	WarningLines   int `json:"warning_lines" yaml:"warning_lines"`
	BlockedLines   int `json:"blocked_lines" yaml:"blocked_lines"`
	TotalFindings  int `json:"total_findings" yaml:"total_findings"`
	FluidChargedML int `json:"fluid_charged_ml" yaml:"fluid_charged_ml"`
}

// Result is the outcome of one evaluation. It is a pure function of the
// profile, the order and the rule snapshot, so it carries no timestamps.
type Result struct {
	ResidentID     string         `json:"resident_id" yaml:"resident_id"`
	OrderID        string         `json:"order_id,omitempty" yaml:"order_id,omitempty"`
	RuleSetVersion string         `json:"ruleset_version" yaml:"ruleset_version"`
	Verdict        values.Verdict `json:"verdict" yaml:"verdict"`
	Lines          []LineResult   `json:"lines" yaml:"lines"`
	Summary        Summary        `json:"summary" yaml:"summary"`
}

// BlockedLines returns the lines whose verdict is BLOCKED.
func (r *Result) BlockedLines() []LineResult {
	var out []LineResult
	for _, l := range r.Lines {
		if l.Verdict.IsBlocked() {
			out = append(out, l)
		}
	}
	return out
}

// Findings returns every finding across all lines in line order.
func (r *Result) Findings() []Finding {
	out := make([]Finding, 0, r.Summary.TotalFindings)
	for _, l := range r.Lines {
		out = append(out, l.Findings...)
	}
	return out
}

// Clone returns a deep copy so callers can annotate results without sharing
// backing arrays.
func (r *Result) Clone() *Result {
	out := *r
	out.Lines = make([]LineResult, len(r.Lines))
	for i, l := range r.Lines {
		l.Findings = append([]Finding(nil), l.Findings...)
		for j := range l.Findings {
			if rem := l.Findings[j].RemainingML; rem != nil {
				v := *rem
				l.Findings[j].RemainingML = &v
			}
		}
		out.Lines[i] = l
	}
	return &out
}
