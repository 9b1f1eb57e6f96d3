package graders

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/spboyer/introscore/internal/models"
)

// GrammarGraderArgs holds the arguments for creating a grammar grader.
type GrammarGraderArgs struct {
	// Name is the display name, "Grammar" by default.
	Name string
}

// grammarGrader is a capitalization proxy for grammar: every sentence that
// does not start with an uppercase letter counts as an error.
type grammarGrader struct {
	name string
}

// NewGrammarGrader creates a [grammarGrader].
func NewGrammarGrader(args GrammarGraderArgs) (*grammarGrader, error) {
	return &grammarGrader{name: nameOr(args.Name, "Grammar")}, nil
}

func (gg *grammarGrader) Name() string               { return gg.name }
func (gg *grammarGrader) Kind() models.CriterionKind { return models.CriterionGrammar }
func (gg *grammarGrader) Max() int                   { return MaxPoints(models.CriterionGrammar) }

func (gg *grammarGrader) Grade(ctx context.Context, gradingContext *Context) (*models.CriterionResult, error) {
	sentences := gradingContext.Transcript.Sentences()

	errors := 0
	for _, s := range sentences {
		if r, _ := utf8.DecodeRuneInString(s); !unicode.IsUpper(r) {
			errors++
		}
	}

	score := 0
	if len(sentences) > 0 {
		score = int(max(0, float64(gg.Max())-float64(errors)/float64(len(sentences))*20))
	}

	return result(gg, score, fmt.Sprintf("Score: %d/10", score), map[string]any{
		"sentences": len(sentences),
		"errors":    errors,
	}), nil
}
