package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spboyer/introscore/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one batch run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one transcript.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure marks a transcript that scored below the minimum.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError marks a transcript that could not be scored.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a BatchOutcome to JUnit XML format. Items whose
// total is below minScore are failures; items that errored are errors.
func ConvertToJUnit(outcome *models.BatchOutcome, minScore int) *JUnitTestSuites {
	durationSec := float64(outcome.Digest.DurationMs) / 1000.0

	suite := JUnitTestSuite{
		Name:      outcome.Dataset,
		Tests:     outcome.Digest.TotalItems,
		Errors:    outcome.Digest.Errors,
		Time:      durationSec,
		Timestamp: outcome.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "embedding_provider", Value: outcome.Setup.EmbeddingProvider},
			{Name: "embedding_model", Value: outcome.Setup.EmbeddingModel},
			{Name: "sentiment_provider", Value: outcome.Setup.SentimentProvider},
			{Name: "min_score", Value: fmt.Sprintf("%d", minScore)},
			{Name: "mean_total", Value: fmt.Sprintf("%.2f", outcome.Digest.MeanTotal)},
		},
	}

	for _, it := range outcome.Items {
		tc := JUnitTestCase{Name: it.ID, Classname: outcome.Dataset}

		switch {
		case it.Status == models.StatusError || it.Report == nil:
			tc.Error = &JUnitError{Message: it.ErrorMsg, Type: "EvaluationUnavailable"}
		case it.Report.Total < minScore:
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%s: total=%d below %d", it.ID, it.Report.Total, minScore),
				Type:    "ScoreBelowMinimum",
				Body:    formatCriteria(it.Report),
			}
			suite.Failures++
		}

		suite.TestCases = append(suite.TestCases, tc)
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Errors:     suite.Errors,
		Time:       durationSec,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func formatCriteria(report *models.ScoreReport) string {
	var b strings.Builder
	for _, c := range report.Criteria {
		fmt.Fprintf(&b, "%s: %d/%d %s\n", c.Name, c.Score, c.Max, c.Feedback)
	}
	return b.String()
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(outcome *models.BatchOutcome, minScore int, path string) error {
	suites := ConvertToJUnit(outcome, minScore)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0o644)
}
