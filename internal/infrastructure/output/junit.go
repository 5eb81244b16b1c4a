package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
)

// JUnitFormatter formats evaluation results as JUnit XML. Each order line
// is a test case; blocked lines fail and warnings go to system-out.
type JUnitFormatter struct {
	writer io.Writer
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{
		writer: w,
	}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// Format writes the evaluation result as JUnit XML.
func (f *JUnitFormatter) Format(resp *dto.EvaluateOrderResponse) error {
	result := resp.Result
	name := result.ResidentID
	if result.OrderID != "" {
		name += "/" + result.OrderID
	}

	suite := JUnitTestSuite{
		Name:     name,
		Tests:    result.Summary.TotalLines,
		Failures: result.Summary.BlockedLines,
		Properties: []JUnitProperty{
			{Name: "verdict", Value: string(result.Verdict)},
			{Name: "ruleset_version", Value: result.RuleSetVersion},
		},
	}

	for _, line := range result.Lines {
		c := JUnitTestCase{
			Name:      line.LineID,
			ClassName: line.ItemID,
		}

		var blocks, warns []evaluation.Finding
		for _, finding := range line.Findings {
			if finding.IsBlocking() {
				blocks = append(blocks, finding)
			} else {
				warns = append(warns, finding)
			}
		}
		if len(blocks) > 0 {
			c.Failure = &JUnitFailure{
				Message: blocks[0].Message,
				Type:    string(blocks[0].Kind),
				Content: formatFindings(blocks),
			}
		}
		if len(warns) > 0 {
			c.SystemOut = formatFindings(warns)
		}

		suite.TestCases = append(suite.TestCases, c)
	}

	suites := JUnitTestSuites{
		Name:       "mealguard",
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}

	_, err := f.writer.Write([]byte(xml.Header))
	if err != nil {
		return err
	}

	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}

	_, err = f.writer.Write([]byte("\n"))
	return err
}

func formatFindings(findings []evaluation.Finding) string {
	var b strings.Builder
	for _, finding := range findings {
		fmt.Fprintf(&b, "%s: %s\n", finding.Kind, finding.Message)
		if detail := findingDetail(finding); detail != "" {
			fmt.Fprintf(&b, "  %s\n", detail)
		}
	}
	return b.String()
}
