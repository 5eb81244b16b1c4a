package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/values"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// TableFormatter formats evaluation results as a human-readable table.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// Format writes the evaluation result as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(resp *dto.EvaluateOrderResponse) error {
	result := resp.Result
	rule := f.colorize(strings.Repeat("─", 80), colorGray)

	fmt.Fprintln(f.writer, rule)
	fmt.Fprintf(f.writer, "Resident: %s\n", f.colorize(result.ResidentID, colorBold))
	if result.OrderID != "" {
		fmt.Fprintf(f.writer, "Order:    %s\n", result.OrderID)
	}
	fmt.Fprintf(f.writer, "Rule set: %s\n", result.RuleSetVersion)
	symbol, color := f.verdictInfo(result.Verdict)
	fmt.Fprintf(f.writer, "Verdict:  %s\n", f.colorize(symbol+" "+string(result.Verdict), color))
	if resp.Cached {
		fmt.Fprintln(f.writer, f.colorize("(cached)", colorGray))
	}
	fmt.Fprintln(f.writer)

	if len(result.Lines) == 0 {
		fmt.Fprintln(f.writer, "No lines evaluated.")
		return nil
	}

	fmt.Fprintln(f.writer, f.colorize("Lines:", colorBold))
	fmt.Fprintln(f.writer, rule)
	for _, line := range result.Lines {
		f.formatLine(line)
	}
	fmt.Fprintln(f.writer, rule)
	fmt.Fprintln(f.writer)

	f.formatSummary(result.Summary)
	return nil
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatLine(line evaluation.LineResult) {
	symbol, color := f.verdictInfo(line.Verdict)
	name := line.ItemName
	if name == "" {
		name = line.ItemID
	}
	fmt.Fprintf(f.writer, "%s %s: %s (%s)\n",
		f.colorize(symbol, color), f.colorize(line.LineID, color), name, f.colorize(line.ItemID, colorCyan))

	for _, finding := range line.Findings {
		tag, tagColor := "warn", colorYellow
		if finding.IsBlocking() {
			tag, tagColor = "block", colorRed
		}
		fmt.Fprintf(f.writer, "    [%s] %s: %s\n", f.colorize(tag, tagColor), finding.Kind, finding.Message)
		if detail := findingDetail(finding); detail != "" {
			fmt.Fprintf(f.writer, "           %s\n", f.colorize(detail, colorGray))
		}
	}
}

func findingDetail(finding evaluation.Finding) string {
	var parts []string
	if finding.Allergen != "" {
		parts = append(parts, "allergen="+finding.Allergen)
	}
	if finding.MatchedTag != "" && finding.MatchedTag != finding.Allergen {
		parts = append(parts, "tag="+finding.MatchedTag)
	}
	if finding.Severity != "" {
		parts = append(parts, "severity="+finding.Severity)
	}
	if finding.RemainingML != nil {
		parts = append(parts, fmt.Sprintf("remaining=%dml", *finding.RemainingML))
	}
	if finding.Source.ID != "" {
		parts = append(parts, fmt.Sprintf("rule=%s/%s@%s", finding.Source.Kind, finding.Source.ID, finding.Source.Version))
	}
	return strings.Join(parts, " ")
}

// formatSummary formats the summary statistics.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatSummary(summary evaluation.Summary) {
	fmt.Fprintln(f.writer, f.colorize("Summary:", colorBold))
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))

	fmt.Fprintf(f.writer, "Lines:        %d total\n", summary.TotalLines)
	fmt.Fprintf(f.writer, "  %s Allowed:  %d\n", f.colorize("✓", colorGreen), summary.AllowedLines)
	fmt.Fprintf(f.writer, "  %s Warning:  %d\n", f.colorize("⚠", colorYellow), summary.WarningLines)
	fmt.Fprintf(f.writer, "  %s Blocked:  %d\n", f.colorize("✗", colorRed), summary.BlockedLines)
	fmt.Fprintf(f.writer, "Findings:     %d\n", summary.TotalFindings)
	fmt.Fprintf(f.writer, "Fluid:        %d ml charged\n", summary.FluidChargedML)

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
}

// verdictInfo returns a symbol and color for the given verdict.
func (f *TableFormatter) verdictInfo(v values.Verdict) (string, string) {
	switch v {
	case values.VerdictAllowed:
		return "✓", colorGreen
	case values.VerdictAllowedWithWarning:
		return "⚠", colorYellow
	case values.VerdictBlocked:
		return "✗", colorRed
	default:
		return "?", colorReset
	}
}
