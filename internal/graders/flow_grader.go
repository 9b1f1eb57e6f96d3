package graders

import (
	"context"

	"github.com/spboyer/introscore/internal/lexical"
	"github.com/spboyer/introscore/internal/models"
)

// FlowGraderArgs holds the arguments for creating a flow grader.
type FlowGraderArgs struct {
	// Name is the display name, "Flow" by default.
	Name string
	// Salutation markers; the first one present (in list order) is used.
	Salutation []string `mapstructure:"salutation"`
	// SelfReference markers; the first one present (in list order) is used.
	SelfReference []string `mapstructure:"self_reference"`
	// Closing markers.
	Closing []string `mapstructure:"closing"`
}

// flowGrader checks the order greeting, introduction, closing using the
// first-occurrence index of a marker from each group. It is a string-index
// heuristic and does not look at sentence structure.
type flowGrader struct {
	name          string
	salutation    []string
	selfReference []string
	closing       []string
}

// NewFlowGrader creates a [flowGrader].
func NewFlowGrader(args FlowGraderArgs) (*flowGrader, error) {
	return &flowGrader{
		name:          nameOr(args.Name, "Flow"),
		salutation:    lowerAll(orDefault(args.Salutation, []string{"hello", "hi", "good"})),
		selfReference: lowerAll(orDefault(args.SelfReference, []string{"name", "myself"})),
		closing:       lowerAll(orDefault(args.Closing, []string{"thank"})),
	}, nil
}

func (fg *flowGrader) Name() string               { return fg.name }
func (fg *flowGrader) Kind() models.CriterionKind { return models.CriterionFlow }
func (fg *flowGrader) Max() int                   { return MaxPoints(models.CriterionFlow) }

func (fg *flowGrader) Grade(ctx context.Context, gradingContext *Context) (*models.CriterionResult, error) {
	text := gradingContext.Transcript.Lower()

	salutationIdx := lexical.FirstPresentIndex(text, fg.salutation)
	selfIdx := lexical.FirstPresentIndex(text, fg.selfReference)
	closingIdx := lexical.FirstPresentIndex(text, fg.closing)

	details := map[string]any{
		"salutation_index":     salutationIdx,
		"self_reference_index": selfIdx,
		"closing_index":        closingIdx,
	}

	// Without either anchor there is nothing to order.
	if salutationIdx == -1 && selfIdx == -1 {
		return result(fg, 0, "Unclear", details), nil
	}

	// A missing closing marker counts as not yet reached.
	if salutationIdx < selfIdx && (closingIdx > selfIdx || closingIdx == -1) {
		return result(fg, 5, "Good Structure", details), nil
	}
	return result(fg, 2, "Flow needs improvement", details), nil
}
