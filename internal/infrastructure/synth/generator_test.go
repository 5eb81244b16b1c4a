package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
	"github.com/mealguard-dev/mealguard/internal/infrastructure/config"
)

func TestGenerator_ProducesWellFormedCases(t *testing.T) {
	snap := defaultSnapshot(t)

	g := New(42, snap, 25)
	require.Len(t, g.Menu().Items, 25)

	menu := g.Menu().Index()
	for _, c := range g.Cases(50) {
		profile, problems := c.Profile.ToEntity()
		require.Empty(t, problems, "profile %s", c.Profile.ResidentID)
		require.NotNil(t, profile)

		assert.NotEmpty(t, c.Order.ID)
		require.NotEmpty(t, c.Order.Lines)
		for _, line := range c.Order.Lines {
			_, ok := menu[line.ItemID]
			assert.True(t, ok, "line references unknown item %s", line.ItemID)
		}
	}
}

func TestGenerator_DeterministicForSeed(t *testing.T) {
	snap := defaultSnapshot(t)

	a := New(7, snap, 10)
	b := New(7, snap, 10)
	assert.Equal(t, a.Menu(), b.Menu())

	ca, cb := a.Next(), b.Next()
	assert.Equal(t, ca.Profile, cb.Profile)
	assert.Equal(t, lineItems(ca.Order), lineItems(cb.Order))
}

func defaultSnapshot(t *testing.T) *rules.Snapshot {
	t.Helper()
	parser, err := config.NewRuleSetParser()
	require.NoError(t, err)
	snap, err := parser.Parse(config.DefaultRuleSet(), "embedded")
	require.NoError(t, err)
	return snap
}

func lineItems(o dto.OrderDocument) []string {
	out := make([]string, len(o.Lines))
	for i, l := range o.Lines {
		out[i] = l.ItemID
	}
	return out
}
