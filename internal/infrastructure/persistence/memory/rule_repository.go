package memory

import (
	"fmt"
	"sync/atomic"

	"github.com/mealguard-dev/mealguard/internal/domain/repositories"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
)

// Ensure interface compliance
var _ repositories.RuleRepository = (*RuleRepository)(nil)

// RuleRepository holds the active rule snapshot behind an atomic pointer.
// Reads never lock; a swap replaces the pointer in one step so readers see
// either the old snapshot or the new one, never a mix.
type RuleRepository struct {
	current atomic.Pointer[rules.Snapshot]
}

// NewRuleRepository creates a repository, optionally seeded with a snapshot.
func NewRuleRepository(initial *rules.Snapshot) *RuleRepository {
	r := &RuleRepository{}
	if initial != nil {
		r.current.Store(initial)
	}
	return r
}

// Current returns the active snapshot.
func (r *RuleRepository) Current() *rules.Snapshot {
	return r.current.Load()
}

// Swap installs next. Concurrent swaps are serialized by compare-and-swap so
// the version check always runs against the snapshot actually replaced.
func (r *RuleRepository) Swap(next *rules.Snapshot, force bool) (*rules.Snapshot, error) {
	if next == nil {
		return nil, fmt.Errorf("cannot swap in a nil rule snapshot")
	}
	for {
		prev := r.current.Load()
		if prev != nil && !force && next.SemVer().LessThan(prev.SemVer()) {
			return prev, fmt.Errorf("%w: have %s, got %s", repositories.ErrStaleRuleSet, prev.SemVer(), next.SemVer())
		}
		if r.current.CompareAndSwap(prev, next) {
			return prev, nil
		}
	}
}
