package reporting

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/rubric"
)

const (
	colScore        = 7
	maxFeedbackCols = 72
)

// RenderTable writes the report as an aligned text table, one row per
// criterion, followed by the total and band.
func RenderTable(w io.Writer, report *models.ScoreReport) {
	rows := report.Rows()

	nameWidth := runewidth.StringWidth("Criterion")
	for _, r := range rows {
		nameWidth = max(nameWidth, runewidth.StringWidth(r.Criterion))
	}
	nameWidth += 2

	totalWidth := nameWidth + colScore + maxFeedbackCols
	fmt.Fprintf(w, "%s%s%s\n", padRight("Criterion", nameWidth), padRight("Score", colScore), "Feedback")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth))

	for _, r := range rows {
		fmt.Fprintf(w, "%s%s%s\n",
			padRight(r.Criterion, nameWidth),
			padRight(strconv.Itoa(r.Score)+"/"+strconv.Itoa(r.Max), colScore),
			truncate(r.Feedback, maxFeedbackCols))
	}

	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth))
	fmt.Fprintf(w, "%s%s%s\n", padRight("Total", nameWidth), padRight(fmt.Sprintf("%d/%d", report.Total, report.MaxTotal()), colScore), report.Band())
}

// RenderBatchTable writes one line per batch item plus the digest.
func RenderBatchTable(w io.Writer, outcome *models.BatchOutcome) {
	idWidth := runewidth.StringWidth("Item")
	for _, it := range outcome.Items {
		idWidth = max(idWidth, runewidth.StringWidth(it.ID))
	}
	idWidth += 2

	fmt.Fprintf(w, "%s%s%s\n", padRight("Item", idWidth), padRight("Total", colScore), "Band")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", idWidth+colScore+20))

	for _, it := range outcome.Items {
		if it.Status != models.StatusScored || it.Report == nil {
			fmt.Fprintf(w, "%s%s%s\n", padRight(it.ID, idWidth), padRight("-", colScore), "❌ "+truncate(it.ErrorMsg, 60))
			continue
		}
		fmt.Fprintf(w, "%s%s%s\n", padRight(it.ID, idWidth), padRight(strconv.Itoa(it.Report.Total), colScore), it.Report.Band())
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, FormatBatchSummary(outcome))
}

// RenderRubric lists the criteria in display order with their maximum points.
func RenderRubric(w io.Writer, criteria []rubric.Criterion) {
	nameWidth := runewidth.StringWidth("Criterion")
	for _, c := range criteria {
		nameWidth = max(nameWidth, runewidth.StringWidth(c.Name))
	}
	nameWidth += 2

	fmt.Fprintf(w, "%s%s%s\n", padRight("Criterion", nameWidth), padRight("Max", colScore), "Kind")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", nameWidth+colScore+12))

	total := 0
	for _, c := range criteria {
		fmt.Fprintf(w, "%s%s%s\n", padRight(c.Name, nameWidth), padRight(strconv.Itoa(c.Max), colScore), c.Kind)
		total += c.Max
	}
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", nameWidth+colScore+12))
	fmt.Fprintf(w, "%s%s\n", padRight("Total", nameWidth), strconv.Itoa(total))
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// truncate shortens s to at most width display columns, ending in "…".
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
