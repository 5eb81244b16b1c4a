package dto

import (
	"time"

	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
)

// EvaluateOrderResponse is the outcome of an evaluation request.
type EvaluateOrderResponse struct {
	Result       *evaluation.Result `json:"result" yaml:"result"`
	EvaluationID string             `json:"evaluation_id,omitempty" yaml:"evaluation_id,omitempty"`
	InputDigest  string             `json:"input_digest" yaml:"input_digest"`
	Cached       bool               `json:"cached" yaml:"cached"`
}

// RuleSetInfo describes the active rule set.
type RuleSetInfo struct {
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	Version     string    `json:"version" yaml:"version"`
	Digest      string    `json:"digest" yaml:"digest"`
	Source      string    `json:"source,omitempty" yaml:"source,omitempty"`
	LoadedAt    time.Time `json:"loaded_at" yaml:"loaded_at"`
	DietTypes   []string  `json:"diet_types" yaml:"diet_types"`
	Allergens   []string  `json:"allergens" yaml:"allergens"`
	IDDSILevels int       `json:"iddsi_levels" yaml:"iddsi_levels"`
	Advisories  int       `json:"advisories" yaml:"advisories"`
}

// NewRuleSetInfo summarizes a snapshot.
func NewRuleSetInfo(s *rules.Snapshot, source string, loadedAt time.Time) RuleSetInfo {
	def := s.Definition()
	return RuleSetInfo{
		Name:        s.Name(),
		Version:     s.Version(),
		Digest:      s.Digest().String(),
		Source:      source,
		LoadedAt:    loadedAt,
		DietTypes:   s.DietTypeIDs(),
		Allergens:   s.AllergenIDs(),
		IDDSILevels: len(def.IDDSILevels),
		Advisories:  len(s.Advisories()),
	}
}

// ReloadRuleSetResponse reports the outcome of a reload.
type ReloadRuleSetResponse struct {
	Previous string `json:"previous,omitempty" yaml:"previous,omitempty"`
	Current  string `json:"current" yaml:"current"`
	Changed  bool   `json:"changed" yaml:"changed"`
}

// EvaluationEvent is published after each served evaluation.
type EvaluationEvent struct {
	EvaluationID   string    `json:"evaluation_id"`
	ResidentID     string    `json:"resident_id"`
	OrderID        string    `json:"order_id,omitempty"`
	Verdict        string    `json:"verdict"`
	RuleSetVersion string    `json:"ruleset_version"`
	BlockedLines   int       `json:"blocked_lines"`
	WarningLines   int       `json:"warning_lines"`
	FindingKinds   []string  `json:"finding_kinds,omitempty"`
	Principal      string    `json:"principal,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
