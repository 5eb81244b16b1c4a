package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

var kindDescriptions = map[values.FindingKind]string{
	values.KindAllergenMatch:        "Item contains an allergen the resident must avoid",
	values.KindDietIncompatible:     "Item is not compatible with the resident's diet",
	values.KindTextureIncompatible:  "Item cannot be prepared at the resident's IDDSI level",
	values.KindFluidLimitExceeded:   "Line would exceed the resident's fluid allowance",
	values.KindPortionMismatch:      "Portion is outside the resident's meal-size policy",
	values.KindRuleResolutionFailed: "A referenced rule could not be resolved",
	values.KindItemUnavailable:      "Item is not available",
	values.KindAdvisory:             "Rule set advisory",
}

type sarifMapper struct {
	resp       *dto.EvaluateOrderResponse
	sourcePath string
	cwd        string
}

func newSARIFMapper(resp *dto.EvaluateOrderResponse, sourcePath string) *sarifMapper {
	cwd, _ := os.Getwd() // Best effort, ignore error
	return &sarifMapper{resp: resp, sourcePath: sourcePath, cwd: cwd}
}

// mapToRun populates the SARIF run with rules, results, invocations, and properties.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addInvocation(run)
	m.addProperties(run)
}

// addRules registers one rule per finding kind present in the result.
func (m *sarifMapper) addRules(run *sarif.Run) {
	levels := make(map[values.FindingKind]string)
	for _, finding := range m.resp.Result.Findings() {
		if levels[finding.Kind] != "error" {
			levels[finding.Kind] = m.level(finding)
		}
	}

	kinds := make([]string, 0, len(levels))
	for kind := range levels {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		desc := kindDescriptions[values.FindingKind(kind)]
		if desc == "" {
			desc = kind
		}
		rule := sarif.NewReportingDescriptor().WithID(kind)
		rule.WithName(kind)
		rule.WithShortDescription(&sarif.MultiformatMessageString{Text: &desc})
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: levels[values.FindingKind(kind)],
		})
		run.Tool.Driver.AddRule(rule)
	}
}

// addResults converts each finding to a SARIF result.
func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, line := range m.resp.Result.Lines {
		for _, finding := range line.Findings {
			run.AddResult(m.mapFinding(line, finding))
		}
	}
}

func (m *sarifMapper) mapFinding(line evaluation.LineResult, finding evaluation.Finding) *sarif.Result {
	result := sarif.NewRuleResult(string(finding.Kind))
	result.Level = m.level(finding)
	result.Kind = "fail"
	result.Message = sarif.NewTextMessage(fmt.Sprintf("line %s (%s): %s", line.LineID, line.ItemID, finding.Message))

	if m.sourcePath != "" {
		loc := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithURI(m.normalizeURI(m.sourcePath))),
		)
		result.Locations = []*sarif.Location{loc}
	}

	props := sarif.NewPropertyBag()
	props.Add("line_id", line.LineID)
	props.Add("item_id", line.ItemID)
	props.Add("line_verdict", string(line.Verdict))
	props.Add("rule", finding.Source)
	if finding.Allergen != "" {
		props.Add("allergen", finding.Allergen)
	}
	if finding.Severity != "" {
		props.Add("severity", finding.Severity)
	}
	if finding.RemainingML != nil {
		props.Add("remaining_ml", *finding.RemainingML)
	}
	result.WithProperties(props)

	return result
}

func (m *sarifMapper) level(finding evaluation.Finding) string {
	if finding.IsBlocking() {
		return "error"
	}
	return "warning"
}

// normalizeURI converts a file path to a SARIF-compliant URI.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path) // Fallback to original
	}

	if m.cwd != "" {
		if rel, err := filepath.Rel(m.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	return "file://" + filepath.ToSlash(abs)
}

// addInvocation adds evaluation metadata to the run.
func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()
	invocation.ExecutionSuccessful = ptrBool(true)

	props := sarif.NewPropertyBag()
	props.Add("residentId", m.resp.Result.ResidentID)
	props.Add("orderId", m.resp.Result.OrderID)
	props.Add("ruleSetVersion", m.resp.Result.RuleSetVersion)
	props.Add("verdict", string(m.resp.Result.Verdict))
	if m.resp.EvaluationID != "" {
		props.Add("evaluationId", m.resp.EvaluationID)
	}
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

// addProperties adds summary statistics to run properties.
func (m *sarifMapper) addProperties(run *sarif.Run) {
	props := sarif.NewPropertyBag()
	props.Add("summary", m.resp.Result.Summary)
	run.WithProperties(props)
}
