package graders

import (
	"context"
	"fmt"

	"github.com/spboyer/introscore/internal/lexical"
	"github.com/spboyer/introscore/internal/models"
)

// ClarityGraderArgs holds the arguments for creating a clarity grader.
type ClarityGraderArgs struct {
	// Name is the display name, "Clarity" by default.
	Name string
	// Fillers are matched as exact lowercase tokens. Empty means the built-in set.
	Fillers []string `mapstructure:"fillers"`
}

// maxFillerRate is the highest filler percentage still graded as excellent.
const maxFillerRate = 3.0

var defaultFillers = []string{"um", "uh", "like", "so", "actually"}

// clarityGrader measures filler-word density. There is no partial credit:
// the score drops from 15 to 9 as soon as the rate passes 3%.
type clarityGrader struct {
	name    string
	fillers map[string]struct{}
}

// NewClarityGrader creates a [clarityGrader].
func NewClarityGrader(args ClarityGraderArgs) (*clarityGrader, error) {
	return &clarityGrader{
		name:    nameOr(args.Name, "Clarity"),
		fillers: lexical.Set(lowerAll(orDefault(args.Fillers, defaultFillers))),
	}, nil
}

func (cg *clarityGrader) Name() string               { return cg.name }
func (cg *clarityGrader) Kind() models.CriterionKind { return models.CriterionClarity }
func (cg *clarityGrader) Max() int                   { return MaxPoints(models.CriterionClarity) }

func (cg *clarityGrader) Grade(ctx context.Context, gradingContext *Context) (*models.CriterionResult, error) {
	tokens := gradingContext.Transcript.LowerTokens()
	count := lexical.CountTokens(tokens, cg.fillers)

	rate := 0.0
	if len(tokens) > 0 {
		// Multiply first so that 3 of 100 is exactly 3.0.
		rate = float64(count*100) / float64(len(tokens))
	}

	details := map[string]any{
		"fillers": count,
		"tokens":  len(tokens),
		"rate":    rate,
	}

	if rate <= maxFillerRate {
		return result(cg, 15, "Excellent (<3%)", details), nil
	}
	return result(cg, 9, fmt.Sprintf("Found %.1f%% fillers", rate), details), nil
}
