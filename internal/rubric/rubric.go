// Package rubric runs a set of graders over one transcript and assembles the
// ordered [models.ScoreReport].
package rubric

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spboyer/introscore/internal/graders"
	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/transcript"
	"golang.org/x/sync/errgroup"
)

// MaxTotal is the sum of the criterion maxima of every valid rubric.
const MaxTotal = 100

// ErrEvaluationUnavailable is returned when a capability a criterion depends
// on (embeddings, sentiment) fails. The pass is retryable; no partial report
// is produced, since a zero for that criterion would misrepresent the score.
var ErrEvaluationUnavailable = errors.New("evaluation unavailable")

// Criterion describes one rubric entry.
type Criterion struct {
	Name string               `json:"criterion"`
	Kind models.CriterionKind `json:"kind"`
	Max  int                  `json:"max"`
}

// Scorer is the aggregator. It is safe for concurrent use as long as the
// graders' capabilities are.
type Scorer struct {
	graders  []graders.Grader
	parallel bool
	logger   *slog.Logger
}

// Option configures a [Scorer].
type Option func(*Scorer)

// WithParallel runs the graders of one pass concurrently. Report order is unaffected.
func WithParallel(parallel bool) Option {
	return func(s *Scorer) { s.parallel = parallel }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) { s.logger = logger }
}

// New creates a Scorer over gs, in the given display order. It rejects an
// empty rubric, duplicate criteria and maxima that do not sum to [MaxTotal].
func New(gs []graders.Grader, opts ...Option) (*Scorer, error) {
	if len(gs) == 0 {
		return nil, errors.New("rubric has no criteria")
	}

	seen := make(map[string]bool, len(gs))
	sum := 0
	for _, g := range gs {
		if g == nil {
			return nil, errors.New("rubric contains a nil grader")
		}
		if seen[g.Name()] {
			return nil, fmt.Errorf("duplicate criterion %q", g.Name())
		}
		seen[g.Name()] = true
		if g.Max() <= 0 {
			return nil, fmt.Errorf("criterion %q has non-positive max %d", g.Name(), g.Max())
		}
		sum += g.Max()
	}
	if sum != MaxTotal {
		return nil, fmt.Errorf("criterion maxima sum to %d, want %d", sum, MaxTotal)
	}

	s := &Scorer{graders: gs, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Criteria lists the rubric in display order.
func (s *Scorer) Criteria() []Criterion {
	out := make([]Criterion, 0, len(s.graders))
	for _, g := range s.graders {
		out = append(out, Criterion{Name: g.Name(), Kind: g.Kind(), Max: g.Max()})
	}
	return out
}

// Score runs every criterion over text and returns the report. Degenerate
// input (blank text, non-positive duration) is scored, not rejected.
// Capability failures are returned wrapped in [ErrEvaluationUnavailable].
func (s *Scorer) Score(ctx context.Context, text string, durationSeconds float64) (*models.ScoreReport, error) {
	gradingContext := &graders.Context{Transcript: transcript.New(text, durationSeconds)}
	results := make([]*models.CriterionResult, len(s.graders))

	if s.parallel {
		eg, egCtx := errgroup.WithContext(ctx)
		for i, g := range s.graders {
			eg.Go(func() error {
				res, err := s.grade(egCtx, g, gradingContext)
				results[i] = res
				return err
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, g := range s.graders {
			res, err := s.grade(ctx, g, gradingContext)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
	}

	report := &models.ScoreReport{Criteria: make([]models.CriterionResult, 0, len(results))}
	for _, res := range results {
		report.Criteria = append(report.Criteria, *res)
		report.Total += res.Score
	}

	s.logger.Debug("Scored transcript",
		"words", gradingContext.Transcript.WordCount(),
		"duration", durationSeconds,
		"total", report.Total)
	return report, nil
}

func (s *Scorer) grade(ctx context.Context, g graders.Grader, gradingContext *graders.Context) (*models.CriterionResult, error) {
	res, err := g.Grade(ctx, gradingContext)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEvaluationUnavailable, g.Name(), err)
	}
	if res == nil {
		return nil, fmt.Errorf("criterion %q returned no result", g.Name())
	}
	if res.Score < 0 || res.Score > g.Max() || res.Max != g.Max() {
		return nil, fmt.Errorf("criterion %q returned score %d/%d outside [0, %d]", g.Name(), res.Score, res.Max, g.Max())
	}

	s.logger.Debug("Graded criterion", "criterion", g.Name(), "score", res.Score, "max", res.Max, "feedback", res.Feedback)
	return res, nil
}
