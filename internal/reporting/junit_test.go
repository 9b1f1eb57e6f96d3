package reporting

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spboyer/introscore/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReport(total int) *models.ScoreReport {
	return &models.ScoreReport{
		Total: total,
		Criteria: []models.CriterionResult{
			{Name: "Salutation", Kind: models.CriterionSalutation, Score: 4, Max: 5, Feedback: "Good (Formal)"},
			{Name: "Keywords", Kind: models.CriterionKeywords, Score: total - 4, Max: 95, Feedback: "✅ Name, ❌ Age"},
		},
	}
}

func newTestOutcome() *models.BatchOutcome {
	return &models.BatchOutcome{
		RunID:     "batch-1",
		Dataset:   "class8.csv",
		Timestamp: time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC),
		Setup: models.OutcomeSetup{
			EmbeddingProvider: "hashing",
			EmbeddingModel:    "fnv-bow-1024",
			SemanticThreshold: 0.35,
			SentimentProvider: "lexicon",
			Workers:           4,
		},
		Digest: models.BatchDigest{
			TotalItems: 3,
			Scored:     2,
			Errors:     1,
			MeanTotal:  63.5,
			DurationMs: 3500,
		},
		Items: []models.BatchItem{
			{ID: "riya", Status: models.StatusScored, Report: newTestReport(82)},
			{ID: "sam", Status: models.StatusScored, Report: newTestReport(45)},
			{ID: "arjun", Status: models.StatusError, ErrorMsg: "evaluation unavailable: Engagement: offline"},
		},
	}
}

func TestConvertToJUnit_Structure(t *testing.T) {
	suites := ConvertToJUnit(newTestOutcome(), 50)

	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	assert.InDelta(t, 3.5, suites.Time, 0.001)
	require.Len(t, suites.TestSuites, 1)

	suite := suites.TestSuites[0]
	assert.Equal(t, "class8.csv", suite.Name)
	assert.Equal(t, "2026-06-15T12:00:00Z", suite.Timestamp)
	require.Len(t, suite.TestCases, 3)
}

func TestConvertToJUnit_TestCases(t *testing.T) {
	cases := ConvertToJUnit(newTestOutcome(), 50).TestSuites[0].TestCases

	passed := cases[0]
	assert.Equal(t, "riya", passed.Name)
	assert.Equal(t, "class8.csv", passed.Classname)
	assert.Nil(t, passed.Failure)
	assert.Nil(t, passed.Error)

	failed := cases[1]
	require.NotNil(t, failed.Failure)
	assert.Equal(t, "ScoreBelowMinimum", failed.Failure.Type)
	assert.Contains(t, failed.Failure.Message, "total=45 below 50")
	assert.Contains(t, failed.Failure.Body, "Salutation: 4/5 Good (Formal)")

	errored := cases[2]
	require.NotNil(t, errored.Error)
	assert.Equal(t, "EvaluationUnavailable", errored.Error.Type)
	assert.Contains(t, errored.Error.Message, "offline")
}

func TestConvertToJUnit_ZeroMinimumNeverFails(t *testing.T) {
	suites := ConvertToJUnit(newTestOutcome(), 0)
	assert.Zero(t, suites.Failures)
}

func TestConvertToJUnit_Properties(t *testing.T) {
	props := map[string]string{}
	for _, p := range ConvertToJUnit(newTestOutcome(), 50).TestSuites[0].Properties {
		props[p.Name] = p.Value
	}
	assert.Equal(t, "hashing", props["embedding_provider"])
	assert.Equal(t, "fnv-bow-1024", props["embedding_model"])
	assert.Equal(t, "lexicon", props["sentiment_provider"])
	assert.Equal(t, "50", props["min_score"])
	assert.Equal(t, "63.50", props["mean_total"])
}

func TestWriteJUnitXML_ValidXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xml")
	require.NoError(t, WriteJUnitXML(newTestOutcome(), 50, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), xml.Header))

	var parsed JUnitTestSuites
	require.NoError(t, xml.Unmarshal(data, &parsed))
	assert.Equal(t, 3, parsed.Tests)
	require.Len(t, parsed.TestSuites[0].TestCases, 3)
}
