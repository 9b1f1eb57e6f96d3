package graders

import (
	"context"
	"errors"
	"fmt"

	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/sentiment"
)

// EngagementGraderArgs holds the arguments for creating an engagement grader.
type EngagementGraderArgs struct {
	// Name is the display name, "Engagement" by default.
	Name string
	// Analyzer provides sentiment polarity. Required.
	Analyzer sentiment.Analyzer `mapstructure:"-"`
}

// highPositivity is the positivity a transcript must exceed for full marks.
const highPositivity = 0.6

// engagementGrader maps sentiment polarity in [-1, 1] to positivity in
// [0, 1] and awards 15 above 0.6, 10 otherwise.
type engagementGrader struct {
	name     string
	analyzer sentiment.Analyzer
}

// NewEngagementGrader creates an [engagementGrader].
func NewEngagementGrader(args EngagementGraderArgs) (*engagementGrader, error) {
	if args.Analyzer == nil {
		return nil, errors.New("engagement grader requires a sentiment analyzer")
	}
	return &engagementGrader{
		name:     nameOr(args.Name, "Engagement"),
		analyzer: args.Analyzer,
	}, nil
}

func (eg *engagementGrader) Name() string               { return eg.name }
func (eg *engagementGrader) Kind() models.CriterionKind { return models.CriterionEngagement }
func (eg *engagementGrader) Max() int                   { return MaxPoints(models.CriterionEngagement) }

func (eg *engagementGrader) Grade(ctx context.Context, gradingContext *Context) (*models.CriterionResult, error) {
	polarity, err := eg.analyzer.Polarity(ctx, gradingContext.Transcript.Text())
	if err != nil {
		return nil, fmt.Errorf("sentiment: %w", err)
	}

	positivity := (polarity + 1) / 2
	details := map[string]any{
		"polarity":   polarity,
		"positivity": positivity,
	}

	if positivity > highPositivity {
		return result(eg, 15, "High Positivity", details), nil
	}
	return result(eg, 10, "Neutral/Low", details), nil
}
