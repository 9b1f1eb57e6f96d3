// Package orchestration scores whole datasets: it fans items out to a bounded
// pool of workers, keeps input order, and summarizes the results.
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spboyer/introscore/internal/dataset"
	"github.com/spboyer/introscore/internal/metrics"
	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker count used when none is configured.
const DefaultWorkers = 4

// Scorer produces a report for one transcript (see rubric.Scorer).
type Scorer interface {
	Score(ctx context.Context, text string, durationSeconds float64) (*models.ScoreReport, error)
}

// BatchRunner scores the items of a dataset.
type BatchRunner struct {
	scorer  Scorer
	workers int
	setup   models.OutcomeSetup
	logger  *slog.Logger

	// Item filtering
	itemFilters []string

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventBatchStart    EventType = "batch_start"
	EventBatchComplete EventType = "batch_complete"
	EventItemComplete  EventType = "item_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType  EventType
	ItemID     string
	ItemNum    int
	TotalItems int
	Status     models.Status
	Total      int
}

// RunnerOption configures a BatchRunner.
type RunnerOption func(*BatchRunner)

// WithWorkers sets the number of concurrent workers. Values <= 0 mean [DefaultWorkers].
func WithWorkers(n int) RunnerOption {
	return func(r *BatchRunner) {
		r.workers = n
	}
}

// WithItemFilters sets glob patterns used to filter items by ID.
func WithItemFilters(patterns ...string) RunnerOption {
	return func(r *BatchRunner) {
		r.itemFilters = patterns
	}
}

// WithSetup records the capabilities the batch is scored with.
func WithSetup(setup models.OutcomeSetup) RunnerOption {
	return func(r *BatchRunner) {
		r.setup = setup
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *BatchRunner) {
		r.logger = logger
	}
}

// NewBatchRunner creates a new batch runner
func NewBatchRunner(scorer Scorer, opts ...RunnerOption) *BatchRunner {
	r := &BatchRunner{
		scorer:    scorer,
		logger:    slog.Default(),
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}
	return r
}

// OnProgress registers a progress listener
func (r *BatchRunner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *BatchRunner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run scores every item. A failing item is recorded with StatusError and
// does not stop the batch; only context cancellation does.
func (r *BatchRunner) Run(ctx context.Context, name string, items []dataset.Item) (*models.BatchOutcome, error) {
	items, err := FilterItems(items, r.itemFilters)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items to score: %w", dataset.ErrEmpty)
	}

	startTime := time.Now()
	r.notifyProgress(ProgressEvent{EventType: EventBatchStart, TotalItems: len(items)})

	results := make([]models.BatchItem, len(items))
	var done sync.Mutex
	completed := 0

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)

	for i, it := range items {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			results[i] = r.scoreItem(egCtx, it)

			done.Lock()
			completed++
			n := completed
			done.Unlock()

			event := ProgressEvent{
				EventType:  EventItemComplete,
				ItemID:     it.ID,
				ItemNum:    n,
				TotalItems: len(items),
				Status:     results[i].Status,
			}
			if results[i].Report != nil {
				event.Total = results[i].Report.Total
			}
			r.notifyProgress(event)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	setup := r.setup
	setup.Workers = r.workers

	outcome := &models.BatchOutcome{
		RunID:     fmt.Sprintf("batch-%d", startTime.Unix()),
		Dataset:   name,
		Timestamp: startTime,
		Setup:     setup,
		Items:     results,
	}
	outcome.Digest = buildDigest(outcome, startTime)

	r.notifyProgress(ProgressEvent{EventType: EventBatchComplete, TotalItems: len(items)})
	return outcome, nil
}

func (r *BatchRunner) scoreItem(ctx context.Context, it dataset.Item) models.BatchItem {
	item := models.BatchItem{ID: it.ID, DurationSeconds: it.DurationSeconds}

	report, err := r.scorer.Score(ctx, it.Transcript, it.DurationSeconds)
	if err != nil {
		r.logger.Warn("Failed to score item", "id", it.ID, "error", err)
		item.Status = models.StatusError
		item.ErrorMsg = err.Error()
		return item
	}

	r.logger.Debug("Scored item", "id", it.ID, "total", report.Total)
	item.Status = models.StatusScored
	item.Report = report
	return item
}

func buildDigest(outcome *models.BatchOutcome, startTime time.Time) models.BatchDigest {
	totals := outcome.Totals()
	summary := metrics.Summarize(totals)

	digest := models.BatchDigest{
		TotalItems: len(outcome.Items),
		Scored:     summary.N,
		Errors:     len(outcome.Items) - summary.N,
		MeanTotal:  summary.Mean,
		StdDev:     summary.StdDev,
		MinTotal:   int(summary.Min),
		MaxTotal:   int(summary.Max),
		Bands:      map[models.Band]int{},
		DurationMs: time.Since(startTime).Milliseconds(),
	}
	if len(totals) >= 2 {
		digest.CI95 = statistics.BootstrapCI(totals, 0.95)
	}

	// Per-criterion means, in the rubric order of the first scored report.
	var order []models.CriterionResult
	perCriterion := map[string][]float64{}
	for _, it := range outcome.Items {
		if it.Report == nil {
			continue
		}
		digest.Bands[it.Report.Band()]++
		if order == nil {
			order = it.Report.Criteria
		}
		for _, c := range it.Report.Criteria {
			perCriterion[c.Name] = append(perCriterion[c.Name], float64(c.Score))
		}
	}
	for _, c := range order {
		digest.CriterionMeans = append(digest.CriterionMeans, models.CriterionMean{
			Name: c.Name,
			Mean: metrics.Mean(perCriterion[c.Name]),
			Max:  c.Max,
		})
	}

	return digest
}
