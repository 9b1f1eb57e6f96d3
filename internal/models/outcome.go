package models

import (
	"time"

	"github.com/spboyer/introscore/internal/statistics"
)

// Status represents the outcome status of a batch item.
type Status string

const (
	StatusScored Status = "scored"
	StatusError  Status = "error"
)

// CriterionKind identifies a rubric criterion (e.g. salutation, pacing).
type CriterionKind string

const (
	CriterionSalutation CriterionKind = "salutation"
	CriterionKeywords   CriterionKind = "keywords"
	CriterionFlow       CriterionKind = "flow"
	CriterionPacing     CriterionKind = "pacing"
	CriterionGrammar    CriterionKind = "grammar"
	CriterionClarity    CriterionKind = "clarity"
	CriterionEngagement CriterionKind = "engagement"
	CriterionVocabulary CriterionKind = "vocabulary"
)

// Band is the overall proficiency label for a report total.
type Band string

const (
	BandExcellent        Band = "Excellent"
	BandGoodEffort       Band = "Good Effort"
	BandNeedsImprovement Band = "Needs Improvement"
)

const (
	bandExcellentAbove  = 80
	bandGoodEffortAbove = 50
)

// CriterionResult is the bounded outcome of one rubric criterion.
// Score is always within [0, Max].
type CriterionResult struct {
	Name     string         `json:"criterion"`
	Kind     CriterionKind  `json:"kind"`
	Score    int            `json:"score"`
	Max      int            `json:"max"`
	Feedback string         `json:"feedback"`
	Details  map[string]any `json:"details,omitempty"`
}

// ScoreReport is the result of one scoring pass. Total is the sum of the
// criterion scores; Criteria is in rubric display order.
type ScoreReport struct {
	Total    int               `json:"total"`
	Criteria []CriterionResult `json:"criteria"`
}

// Row is the tabular view of a criterion: {Criterion, Score, Max, Feedback}.
type Row struct {
	Criterion string `json:"Criterion"`
	Score     int    `json:"Score"`
	Max       int    `json:"Max"`
	Feedback  string `json:"Feedback"`
}

// Rows returns one row per criterion, in report order.
func (r *ScoreReport) Rows() []Row {
	rows := make([]Row, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		rows = append(rows, Row{
			Criterion: c.Name,
			Score:     c.Score,
			Max:       c.Max,
			Feedback:  c.Feedback,
		})
	}
	return rows
}

// MaxTotal returns the sum of the criterion maxima (100 for the standard rubric).
func (r *ScoreReport) MaxTotal() int {
	total := 0
	for _, c := range r.Criteria {
		total += c.Max
	}
	return total
}

// Criterion returns the result for the given kind, if present.
func (r *ScoreReport) Criterion(kind CriterionKind) (CriterionResult, bool) {
	for _, c := range r.Criteria {
		if c.Kind == kind {
			return c, true
		}
	}
	return CriterionResult{}, false
}

// Band classifies the total the same way the dashboard headline does.
func (r *ScoreReport) Band() Band {
	return BandFor(r.Total)
}

// BandFor classifies a total score.
func BandFor(total int) Band {
	switch {
	case total > bandExcellentAbove:
		return BandExcellent
	case total > bandGoodEffortAbove:
		return BandGoodEffort
	default:
		return BandNeedsImprovement
	}
}

// BatchOutcome is the result of scoring a whole dataset.
type BatchOutcome struct {
	RunID     string       `json:"run_id"`
	Dataset   string       `json:"dataset"`
	Timestamp time.Time    `json:"timestamp"`
	Setup     OutcomeSetup `json:"config"`
	Digest    BatchDigest  `json:"summary"`
	Items     []BatchItem  `json:"items"`
}

// OutcomeSetup records the capabilities a batch was scored with.
type OutcomeSetup struct {
	EmbeddingProvider string  `json:"embedding_provider"`
	EmbeddingModel    string  `json:"embedding_model,omitempty"`
	SemanticThreshold float64 `json:"semantic_threshold"`
	SentimentProvider string  `json:"sentiment_provider,omitempty"`
	Workers           int     `json:"workers"`
}

// BatchItem is one scored (or failed) transcript of a batch.
type BatchItem struct {
	ID              string       `json:"id"`
	DurationSeconds float64      `json:"duration_seconds"`
	Status          Status       `json:"status"`
	Report          *ScoreReport `json:"report,omitempty"`
	ErrorMsg        string       `json:"error_msg,omitempty"`
}

// BatchDigest aggregates totals across the scored items of a batch.
type BatchDigest struct {
	TotalItems     int                           `json:"total_items"`
	Scored         int                           `json:"scored"`
	Errors         int                           `json:"errors"`
	MeanTotal      float64                       `json:"mean_total"`
	StdDev         float64                       `json:"std_dev"`
	MinTotal       int                           `json:"min_total"`
	MaxTotal       int                           `json:"max_total"`
	CI95           statistics.ConfidenceInterval `json:"ci95"`
	Bands          map[Band]int                  `json:"bands"`
	CriterionMeans []CriterionMean               `json:"criterion_means"`
	DurationMs     int64                         `json:"duration_ms"`
}

// CriterionMean is the average score of one criterion across a batch.
type CriterionMean struct {
	Name string  `json:"criterion"`
	Mean float64 `json:"mean"`
	Max  int     `json:"max"`
}

// Totals returns the totals of all scored items, in item order.
func (o *BatchOutcome) Totals() []float64 {
	totals := make([]float64, 0, len(o.Items))
	for _, it := range o.Items {
		if it.Status == StatusScored && it.Report != nil {
			totals = append(totals, float64(it.Report.Total))
		}
	}
	return totals
}
