package reporting

import (
	"testing"

	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullReport() *models.ScoreReport {
	return &models.ScoreReport{
		Total: 71,
		Criteria: []models.CriterionResult{
			{Name: "Salutation", Kind: models.CriterionSalutation, Score: 4, Max: 5, Feedback: "Good (Formal)"},
			{Name: "Keywords", Kind: models.CriterionKeywords, Score: 20, Max: 30, Feedback: "✅ Name"},
			{Name: "Flow", Kind: models.CriterionFlow, Score: 5, Max: 5, Feedback: "Good Structure"},
			{Name: "Pacing", Kind: models.CriterionPacing, Score: 2, Max: 10, Feedback: "78 WPM (Too Fast/Slow)"},
			{Name: "Grammar", Kind: models.CriterionGrammar, Score: 10, Max: 10, Feedback: "Score: 10/10"},
			{Name: "Clarity", Kind: models.CriterionClarity, Score: 15, Max: 15, Feedback: "Excellent (<3%)"},
			{Name: "Engagement", Kind: models.CriterionEngagement, Score: 10, Max: 15, Feedback: "Neutral/Low"},
			{Name: "Vocabulary", Kind: models.CriterionVocabulary, Score: 5, Max: 10, Feedback: "TTR: 0.55"},
		},
	}
}

func TestInterpretTotal(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{100, "Excellent (>80)"},
		{81, "Excellent (>80)"},
		{80, "Good Effort (51-80)"},
		{51, "Good Effort (51-80)"},
		{50, "Needs Improvement (<=50)"},
		{0, "Needs Improvement (<=50)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InterpretTotal(tt.total), "total %d", tt.total)
	}
}

func TestWeakestCriteria(t *testing.T) {
	weakest := WeakestCriteria(fullReport(), 3)
	require.Len(t, weakest, 3)

	// Keywords and Engagement tie at 2/3; rubric order puts Keywords first.
	assert.Equal(t, "Pacing", weakest[0].Name)
	assert.Equal(t, "Vocabulary", weakest[1].Name)
	assert.Equal(t, "Keywords", weakest[2].Name)
}

func TestWeakestCriteria_FullMarks(t *testing.T) {
	report := &models.ScoreReport{Total: 5, Criteria: []models.CriterionResult{{Name: "Flow", Score: 5, Max: 5}}}
	assert.Empty(t, WeakestCriteria(report, 3))
	assert.Contains(t, FormatInterpretation(report), "Every criterion is at full marks.")
}

func TestFormatInterpretation(t *testing.T) {
	out := FormatInterpretation(fullReport())

	assert.Contains(t, out, "Overall Score: 71/100 — Good Effort (51-80)")
	assert.Contains(t, out, "✗ Pacing (2/10): 78 WPM (Too Fast/Slow)")
	assert.Contains(t, out, "Aim for 111 to 140 words per minute.")
	assert.NotContains(t, out, "Grammar")
}

func TestFormatBatchSummary(t *testing.T) {
	outcome := newTestOutcome()
	outcome.Digest.TotalItems = 1500
	outcome.Digest.Scored = 1499
	outcome.Digest.StdDev = 12.3
	outcome.Digest.MinTotal = 32
	outcome.Digest.MaxTotal = 91
	outcome.Digest.CI95 = statistics.ConfidenceInterval{Lower: 60.1, Upper: 66.9, NumBootstraps: 10000}
	outcome.Digest.Bands = map[models.Band]int{models.BandGoodEffort: 1000, models.BandExcellent: 499}
	outcome.Digest.CriterionMeans = []models.CriterionMean{{Name: "Pacing", Mean: 6.4, Max: 10}}

	out := FormatBatchSummary(outcome)
	assert.Contains(t, out, "1,499 scored, 1 errors out of 1,500 total")
	assert.Contains(t, out, "Mean Total: 63.5 (std dev 12.3, min 32, max 91)")
	assert.Contains(t, out, "95% CI:     [60.1, 66.9]")
	assert.Contains(t, out, "Good Effort")
	assert.Contains(t, out, "1,000")
	assert.Contains(t, out, "6.4/10")
}

func TestFormatBatchSummary_NothingScored(t *testing.T) {
	outcome := &models.BatchOutcome{Digest: models.BatchDigest{TotalItems: 2, Errors: 2}}
	out := FormatBatchSummary(outcome)
	assert.Contains(t, out, "0 scored, 2 errors out of 2 total")
	assert.NotContains(t, out, "Mean Total")
}
