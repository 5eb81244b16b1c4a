package repositories

import (
	"errors"

	"github.com/mealguard-dev/mealguard/internal/domain/rules"
)

// ErrStaleRuleSet is returned when a swap would move to an older rule set version.
var ErrStaleRuleSet = errors.New("rule set version is older than the current one")

// RuleRepository publishes the current rule snapshot. Readers take one
// snapshot per evaluation; writers replace the whole snapshot at once.
type RuleRepository interface {
	// Current returns the active snapshot, or nil before the first load.
	Current() *rules.Snapshot

	// Swap installs next and returns the snapshot it replaced. Unless force is
	// set, a next snapshot with a lower semantic version is rejected with
	// ErrStaleRuleSet.
	Swap(next *rules.Snapshot, force bool) (*rules.Snapshot, error)
}
