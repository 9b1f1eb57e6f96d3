package reporting

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spboyer/introscore/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// tips suggest one concrete improvement per criterion.
var tips = map[models.CriterionKind]string{
	models.CriterionSalutation: "Open with a greeting such as \"Good morning everyone\".",
	models.CriterionKeywords:   "Cover name, age, class, family and hobbies; add where you are from or a goal.",
	models.CriterionFlow:       "Greet first, then introduce yourself, and close with a thank-you.",
	models.CriterionPacing:     "Aim for 111 to 140 words per minute.",
	models.CriterionGrammar:    "Start every sentence with a capital letter.",
	models.CriterionClarity:    "Cut filler words such as \"um\", \"like\" and \"actually\".",
	models.CriterionEngagement: "Use more positive, enthusiastic language.",
	models.CriterionVocabulary: "Vary your words instead of repeating the same ones.",
}

// InterpretTotal returns a plain-language label for a report total (0-100).
func InterpretTotal(total int) string {
	switch models.BandFor(total) {
	case models.BandExcellent:
		return "Excellent (>80)"
	case models.BandGoodEffort:
		return "Good Effort (51-80)"
	default:
		return "Needs Improvement (<=50)"
	}
}

// WeakestCriteria returns up to n criteria with the lowest score ratio.
// Criteria at full marks are never listed; ties keep rubric order.
func WeakestCriteria(report *models.ScoreReport, n int) []models.CriterionResult {
	var open []models.CriterionResult
	for _, c := range report.Criteria {
		if c.Max > 0 && c.Score < c.Max {
			open = append(open, c)
		}
	}

	slices.SortStableFunc(open, func(a, b models.CriterionResult) int {
		return cmp.Compare(float64(a.Score)/float64(a.Max), float64(b.Score)/float64(b.Max))
	})
	if len(open) > n {
		open = open[:n]
	}
	return open
}

// FormatInterpretation produces a plain-language summary of one report.
func FormatInterpretation(report *models.ScoreReport) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")
	b.WriteString(fmt.Sprintf("Overall Score: %d/%d — %s\n", report.Total, report.MaxTotal(), InterpretTotal(report.Total)))

	weakest := WeakestCriteria(report, 3)
	if len(weakest) == 0 {
		b.WriteString("Every criterion is at full marks.\n")
		return b.String()
	}

	b.WriteString("\nFocus Areas:\n")
	for _, c := range weakest {
		b.WriteString(fmt.Sprintf("  ✗ %s (%d/%d): %s\n", c.Name, c.Score, c.Max, c.Feedback))
		if tip, ok := tips[c.Kind]; ok {
			b.WriteString(fmt.Sprintf("    %s\n", tip))
		}
	}
	return b.String()
}

// FormatBatchSummary produces a plain-language summary of a batch outcome.
func FormatBatchSummary(outcome *models.BatchOutcome) string {
	var b strings.Builder
	d := outcome.Digest
	duration := time.Duration(d.DurationMs) * time.Millisecond

	b.WriteString("=== Batch Summary ===\n\n")
	b.WriteString(printer.Sprintf("Items:      %d scored, %d errors out of %d total\n", d.Scored, d.Errors, d.TotalItems))
	b.WriteString(fmt.Sprintf("Duration:   %v\n", duration))
	if d.Scored == 0 {
		return b.String()
	}

	b.WriteString(printer.Sprintf("Mean Total: %.1f (std dev %.1f, min %d, max %d) — %s\n",
		d.MeanTotal, d.StdDev, d.MinTotal, d.MaxTotal, InterpretTotal(int(d.MeanTotal))))
	if d.CI95.NumBootstraps > 0 {
		b.WriteString(printer.Sprintf("95%% CI:     [%.1f, %.1f]\n", d.CI95.Lower, d.CI95.Upper))
	}

	b.WriteString("\nBands:\n")
	for _, band := range []models.Band{models.BandExcellent, models.BandGoodEffort, models.BandNeedsImprovement} {
		b.WriteString(printer.Sprintf("  %-18s %d\n", band, d.Bands[band]))
	}

	if len(d.CriterionMeans) > 0 {
		b.WriteString("\nCriterion Averages:\n")
		for _, cm := range d.CriterionMeans {
			b.WriteString(printer.Sprintf("  %s %.1f/%d\n", padRight(cm.Name, 12), cm.Mean, cm.Max))
		}
	}
	return b.String()
}
