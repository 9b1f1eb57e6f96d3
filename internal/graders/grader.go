// Package graders implements the rubric criteria. Each grader inspects one
// aspect of a transcript and produces a bounded [models.CriterionResult].
package graders

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/semantic"
	"github.com/spboyer/introscore/internal/sentiment"
	"github.com/spboyer/introscore/internal/transcript"
)

// Grader is the interface for all rubric criteria
type Grader interface {
	// Name returns the display name used in reports, e.g. "Salutation".
	Name() string

	// Kind returns the criterion this grader scores.
	Kind() models.CriterionKind

	// Max returns the maximum number of points the grader can award.
	Max() int

	// Grade scores the transcript. Degenerate input (empty text, zero duration)
	// never errors; only capability failures do.
	Grade(ctx context.Context, gradingContext *Context) (*models.CriterionResult, error)
}

// Context provides the input of one scoring pass to every grader.
type Context struct {
	Transcript *transcript.Transcript
}

// Capabilities are the long-lived, shared resources some graders depend on.
// They are constructed once by the caller and injected read-only.
type Capabilities struct {
	// Embedder backs the keyword semantic fallback. Nil disables the fallback.
	Embedder semantic.Embedder
	// Threshold overrides [semantic.DefaultThreshold] when > 0.
	Threshold float64
	// Analyzer scores sentiment for the engagement criterion. Required.
	Analyzer sentiment.Analyzer
}

// Order is the fixed rubric display order.
var Order = []models.CriterionKind{
	models.CriterionSalutation,
	models.CriterionKeywords,
	models.CriterionFlow,
	models.CriterionPacing,
	models.CriterionGrammar,
	models.CriterionClarity,
	models.CriterionEngagement,
	models.CriterionVocabulary,
}

var maxPoints = map[models.CriterionKind]int{
	models.CriterionSalutation: 5,
	models.CriterionKeywords:   30,
	models.CriterionFlow:       5,
	models.CriterionPacing:     10,
	models.CriterionGrammar:    10,
	models.CriterionClarity:    15,
	models.CriterionEngagement: 15,
	models.CriterionVocabulary: 10,
}

// MaxPoints returns the fixed weight of a criterion, or 0 for an unknown kind.
func MaxPoints(kind models.CriterionKind) int {
	return maxPoints[kind]
}

// Create creates a grader of the given kind. params come from the rubric
// section of the project config and may be nil.
func Create(kind models.CriterionKind, params map[string]any, caps Capabilities) (Grader, error) {
	switch kind {
	case models.CriterionSalutation:
		var args SalutationGraderArgs
		if err := decode(params, &args); err != nil {
			return nil, fmt.Errorf("%s params: %w", kind, err)
		}
		return NewSalutationGrader(args)
	case models.CriterionKeywords:
		var args KeywordsGraderArgs
		if err := decode(params, &args); err != nil {
			return nil, fmt.Errorf("%s params: %w", kind, err)
		}
		if caps.Embedder != nil {
			threshold := args.Threshold
			if threshold <= 0 {
				threshold = caps.Threshold
			}
			var opts []semantic.FallbackOption
			if threshold > 0 {
				opts = append(opts, semantic.WithThreshold(threshold))
			}
			args.Fallback = semantic.NewFallback(caps.Embedder, opts...)
		}
		return NewKeywordsGrader(args)
	case models.CriterionFlow:
		var args FlowGraderArgs
		if err := decode(params, &args); err != nil {
			return nil, fmt.Errorf("%s params: %w", kind, err)
		}
		return NewFlowGrader(args)
	case models.CriterionPacing:
		var args PacingGraderArgs
		if err := decode(params, &args); err != nil {
			return nil, fmt.Errorf("%s params: %w", kind, err)
		}
		return NewPacingGrader(args)
	case models.CriterionGrammar:
		var args GrammarGraderArgs
		if err := decode(params, &args); err != nil {
			return nil, fmt.Errorf("%s params: %w", kind, err)
		}
		return NewGrammarGrader(args)
	case models.CriterionClarity:
		var args ClarityGraderArgs
		if err := decode(params, &args); err != nil {
			return nil, fmt.Errorf("%s params: %w", kind, err)
		}
		return NewClarityGrader(args)
	case models.CriterionEngagement:
		var args EngagementGraderArgs
		if err := decode(params, &args); err != nil {
			return nil, fmt.Errorf("%s params: %w", kind, err)
		}
		args.Analyzer = caps.Analyzer
		return NewEngagementGrader(args)
	case models.CriterionVocabulary:
		var args VocabularyGraderArgs
		if err := decode(params, &args); err != nil {
			return nil, fmt.Errorf("%s params: %w", kind, err)
		}
		return NewVocabularyGrader(args)
	default:
		return nil, fmt.Errorf("'%s' is not a valid criterion", kind)
	}
}

// DefaultRubric creates the eight graders in display order. params maps a
// criterion to its overrides; criteria without an entry use the defaults.
func DefaultRubric(caps Capabilities, params map[models.CriterionKind]map[string]any) ([]Grader, error) {
	gs := make([]Grader, 0, len(Order))
	for _, kind := range Order {
		g, err := Create(kind, params[kind], caps)
		if err != nil {
			return nil, err
		}
		gs = append(gs, g)
	}
	return gs, nil
}

func decode(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}

func result(g Grader, score int, feedback string, details map[string]any) *models.CriterionResult {
	return &models.CriterionResult{
		Name:     g.Name(),
		Kind:     g.Kind(),
		Score:    score,
		Max:      g.Max(),
		Feedback: feedback,
		Details:  details,
	}
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
