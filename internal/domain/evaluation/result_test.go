package evaluation

import (
	"testing"
	"time"

	"github.com/mealguard-dev/mealguard/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	remaining := 150
	return &Result{
		ResidentID:     "r-1",
		OrderID:        "o-1",
		RuleSetVersion: "1.0.0+abc",
		Verdict:        values.VerdictBlocked,
		Lines: []LineResult{
			{LineID: "a", ItemID: "tea", Verdict: values.VerdictAllowed, Findings: []Finding{}},
			{LineID: "b", ItemID: "juice", Verdict: values.VerdictBlocked, Findings: []Finding{
				{Kind: values.KindFluidLimitExceeded, Class: values.ClassBlock, RemainingML: &remaining},
				{Kind: values.KindPortionMismatch, Class: values.ClassWarn},
			}},
		},
		Summary: Summary{TotalLines: 2, AllowedLines: 1, BlockedLines: 1, TotalFindings: 2},
	}
}

func TestResult_Accessors(t *testing.T) {
	r := sampleResult()

	blocked := r.BlockedLines()
	require.Len(t, blocked, 1)
	assert.Equal(t, "b", blocked[0].LineID)

	assert.Len(t, r.Findings(), 2)
	assert.True(t, r.Lines[1].HasFinding(values.KindPortionMismatch))
	assert.False(t, r.Lines[0].HasFinding(values.KindPortionMismatch))
	assert.True(t, r.Lines[1].Findings[0].IsBlocking())
}

func TestResult_CloneIsDeep(t *testing.T) {
	r := sampleResult()
	c := r.Clone()
	require.Equal(t, r, c)

	c.Lines[1].Findings[0].Message = "changed"
	*c.Lines[1].Findings[0].RemainingML = 0

	assert.Empty(t, r.Lines[1].Findings[0].Message)
	assert.Equal(t, 150, *r.Lines[1].Findings[0].RemainingML)
}

func TestNewRecord(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	rec := NewRecord(sampleResult(), "digest", "nurse-1", "req-1", at)

	assert.False(t, rec.ID.IsZero())
	assert.Equal(t, "r-1", rec.ResidentID)
	assert.Equal(t, values.VerdictBlocked, rec.Verdict)
	assert.Equal(t, time.UTC, rec.EvaluatedAt.Location())
	assert.True(t, at.Equal(rec.EvaluatedAt))
}
