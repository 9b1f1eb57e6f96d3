package graders

import (
	"context"
	"fmt"

	"github.com/spboyer/introscore/internal/lexical"
	"github.com/spboyer/introscore/internal/models"
)

// VocabularyGraderArgs holds the arguments for creating a vocabulary grader.
type VocabularyGraderArgs struct {
	// Name is the display name, "Vocabulary" by default.
	Name string
}

// minTTR is the type-token ratio a transcript must exceed for full marks.
const minTTR = 0.6

// vocabularyGrader scores lexical diversity by type-token ratio.
type vocabularyGrader struct {
	name string
}

// NewVocabularyGrader creates a [vocabularyGrader].
func NewVocabularyGrader(args VocabularyGraderArgs) (*vocabularyGrader, error) {
	return &vocabularyGrader{name: nameOr(args.Name, "Vocabulary")}, nil
}

func (vg *vocabularyGrader) Name() string               { return vg.name }
func (vg *vocabularyGrader) Kind() models.CriterionKind { return models.CriterionVocabulary }
func (vg *vocabularyGrader) Max() int                   { return MaxPoints(models.CriterionVocabulary) }

func (vg *vocabularyGrader) Grade(ctx context.Context, gradingContext *Context) (*models.CriterionResult, error) {
	tokens := gradingContext.Transcript.LowerTokens()

	ttr := 0.0
	if len(tokens) > 0 {
		ttr = float64(lexical.DistinctCount(tokens)) / float64(len(tokens))
	}

	score := 5
	if ttr > minTTR {
		score = 10
	}
	return result(vg, score, fmt.Sprintf("TTR: %.2f", ttr), map[string]any{"ttr": ttr}), nil
}
