package graders

import (
	"context"
	"fmt"
	"math"

	"github.com/spboyer/introscore/internal/models"
)

// PacingGraderArgs holds the arguments for creating a pacing grader.
type PacingGraderArgs struct {
	// Name is the display name, "Pacing" by default.
	Name string
}

const (
	idealMinWPM      = 111
	idealMaxWPM      = 140
	acceptableMinWPM = 81
	acceptableMaxWPM = 160
)

// pacingGrader bands the speech rate in words per minute.
type pacingGrader struct {
	name string
}

// NewPacingGrader creates a [pacingGrader].
func NewPacingGrader(args PacingGraderArgs) (*pacingGrader, error) {
	return &pacingGrader{name: nameOr(args.Name, "Pacing")}, nil
}

func (pg *pacingGrader) Name() string               { return pg.name }
func (pg *pacingGrader) Kind() models.CriterionKind { return models.CriterionPacing }
func (pg *pacingGrader) Max() int                   { return MaxPoints(models.CriterionPacing) }

func (pg *pacingGrader) Grade(ctx context.Context, gradingContext *Context) (*models.CriterionResult, error) {
	t := gradingContext.Transcript
	duration := t.DurationSeconds()
	// NaN and infinite durations carry no pace either.
	if !(duration > 0) || math.IsInf(duration, 1) {
		return result(pg, 0, "N/A", nil), nil
	}

	wpm := float64(t.WordCount()) / (duration / 60)
	details := map[string]any{
		"words": t.WordCount(),
		"wpm":   wpm,
	}

	// The ideal band sits inside the acceptable band, so it is checked first.
	switch {
	case wpm >= idealMinWPM && wpm <= idealMaxWPM:
		return result(pg, 10, fmt.Sprintf("%d WPM (Ideal)", int(wpm)), details), nil
	case wpm >= acceptableMinWPM && wpm <= acceptableMaxWPM:
		return result(pg, 6, fmt.Sprintf("%d WPM (Acceptable)", int(wpm)), details), nil
	default:
		return result(pg, 2, fmt.Sprintf("%d WPM (Too Fast/Slow)", int(wpm)), details), nil
	}
}
