package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/spboyer/introscore/internal/models"
)

// RenderMarkdown writes the report as a GitHub-flavored markdown table.
func RenderMarkdown(w io.Writer, report *models.ScoreReport) {
	fmt.Fprintf(w, "## Score: %d/%d (%s)\n\n", report.Total, report.MaxTotal(), report.Band())
	fmt.Fprintln(w, "| Criterion | Score | Max | Feedback |")
	fmt.Fprintln(w, "|---|---:|---:|---|")
	for _, r := range report.Rows() {
		fmt.Fprintf(w, "| %s | %d | %d | %s |\n", escapeCell(r.Criterion), r.Score, r.Max, escapeCell(r.Feedback))
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
