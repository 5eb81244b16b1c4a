package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
)

// SARIFFormatter formats evaluation results as SARIF 2.1.0 JSON. Finding
// kinds become rules and each finding becomes a result.
type SARIFFormatter struct {
	writer      io.Writer
	sourcePath  string
	toolVersion string
}

// NewSARIFFormatter creates a new SARIF formatter. sourcePath, when set, is
// reported as the location of every result.
func NewSARIFFormatter(writer io.Writer, sourcePath, toolVersion string) *SARIFFormatter {
	return &SARIFFormatter{
		writer:      writer,
		sourcePath:  sourcePath,
		toolVersion: toolVersion,
	}
}

// Format writes the evaluation result as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(resp *dto.EvaluateOrderResponse) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("mealguard", "https://mealguard.dev")
	if f.toolVersion != "" {
		run.Tool.Driver.Version = ptrString(f.toolVersion)
	}

	mapper := newSARIFMapper(resp, f.sourcePath)
	mapper.mapToRun(run)

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func ptrString(s string) *string {
	return &s
}

func ptrBool(b bool) *bool {
	return &b
}
