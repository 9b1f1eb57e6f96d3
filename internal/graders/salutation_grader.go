package graders

import (
	"context"

	"github.com/spboyer/introscore/internal/lexical"
	"github.com/spboyer/introscore/internal/models"
)

// SalutationGraderArgs holds the arguments for creating a salutation grader.
// Empty phrase lists fall back to the built-in tiers.
type SalutationGraderArgs struct {
	// Name is the display name, "Salutation" by default.
	Name string
	// Enthusiastic phrases score 5.
	Enthusiastic []string `mapstructure:"enthusiastic"`
	// Formal greetings score 4.
	Formal []string `mapstructure:"formal"`
	// Basic greetings score 2.
	Basic []string `mapstructure:"basic"`
}

var (
	defaultEnthusiastic = []string{"excited to introduce", "feeling great", "pleasure to meet"}
	defaultFormal       = []string{"good morning", "good afternoon", "good evening", "good day", "hello everyone"}
	defaultBasic        = []string{"hi", "hello", "hey"}
)

type salutationTier struct {
	phrases  []string
	score    int
	feedback string
}

// salutationGrader classifies the greeting style. Tiers are checked in
// priority order and the first tier with a match wins.
type salutationGrader struct {
	name  string
	tiers []salutationTier
}

// NewSalutationGrader creates a [salutationGrader].
func NewSalutationGrader(args SalutationGraderArgs) (*salutationGrader, error) {
	return &salutationGrader{
		name: nameOr(args.Name, "Salutation"),
		tiers: []salutationTier{
			{phrases: lowerAll(orDefault(args.Enthusiastic, defaultEnthusiastic)), score: 5, feedback: "Excellent (Enthusiastic)"},
			{phrases: lowerAll(orDefault(args.Formal, defaultFormal)), score: 4, feedback: "Good (Formal)"},
			{phrases: lowerAll(orDefault(args.Basic, defaultBasic)), score: 2, feedback: "Normal (Basic)"},
		},
	}, nil
}

func (sg *salutationGrader) Name() string               { return sg.name }
func (sg *salutationGrader) Kind() models.CriterionKind { return models.CriterionSalutation }
func (sg *salutationGrader) Max() int                   { return MaxPoints(models.CriterionSalutation) }

func (sg *salutationGrader) Grade(ctx context.Context, gradingContext *Context) (*models.CriterionResult, error) {
	text := gradingContext.Transcript.Lower()

	for _, tier := range sg.tiers {
		if phrase, ok := lexical.FirstMatch(text, tier.phrases); ok {
			return result(sg, tier.score, tier.feedback, map[string]any{"matched": phrase}), nil
		}
	}

	return result(sg, 0, "No Salutation", nil), nil
}
