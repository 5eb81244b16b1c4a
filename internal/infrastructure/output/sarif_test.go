package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealguard-dev/mealguard/internal/application/ports"
)

func portsOptions() ports.FormatterOptions {
	return ports.FormatterOptions{Indent: true, ToolVersion: "1.2.3", SourcePath: "order.yaml"}
}

func TestSARIFFormatter_Format(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewSARIFFormatter(&buf, "order.yaml", "1.2.3").Format(createTestResponse()))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "2.1.0", raw["version"])
	assert.Contains(t, raw, "$schema")

	runs := raw["runs"].([]interface{})
	require.Len(t, runs, 1)
	run := runs[0].(map[string]interface{})
	assert.Contains(t, run, "results")
	assert.Contains(t, run, "invocations")
}

func TestSARIFFormatter_ValidatesAgainstSchema(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewSARIFFormatter(&buf, "order.yaml", "1.2.3").Format(createTestResponse()))

	report, err := sarif.FromBytes(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, report.Validate())
}

func TestSARIFFormatter_FindingsBecomeResults(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewSARIFFormatter(&buf, "", "").Format(createTestResponse()))

	var doc struct {
		Runs []struct {
			Tool struct {
				Driver struct {
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string            `json:"ruleId"`
				Level     string            `json:"level"`
				Locations []json.RawMessage `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]

	require.Len(t, run.Tool.Driver.Rules, 2)
	assert.Equal(t, "AllergenMatch", run.Tool.Driver.Rules[0].ID)
	assert.Equal(t, "PortionMismatch", run.Tool.Driver.Rules[1].ID)

	require.Len(t, run.Results, 2)
	assert.Equal(t, "AllergenMatch", run.Results[0].RuleID)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.Equal(t, "warning", run.Results[1].Level)
	assert.Empty(t, run.Results[0].Locations)
}
