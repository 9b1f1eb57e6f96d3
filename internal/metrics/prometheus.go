package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spboyer/introscore/internal/models"
)

const namespace = "introscore"

// HTTP metrics (incremented by middleware).
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed.",
	}, []string{"method", "path_pattern", "status_code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path_pattern"})
)

// Scoring metrics (incremented by the API and batch runner).
var (
	ReportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_total",
		Help:      "Score reports produced, by proficiency band.",
	}, []string{"band"})

	ReportTotalScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_total_score",
		Help:      "Distribution of report totals (0-100).",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	})

	CriterionScoreRatio = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "criterion_score_ratio",
		Help:      "Criterion score as a fraction of its maximum.",
		Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
	}, []string{"criterion"})

	EvaluationUnavailableTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evaluation_unavailable_total",
		Help:      "Scoring passes aborted by a capability failure.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ReportsTotal,
		ReportTotalScore,
		CriterionScoreRatio,
		EvaluationUnavailableTotal,
	)
}

// ObserveReport records a finished report.
func ObserveReport(report *models.ScoreReport) {
	ReportsTotal.WithLabelValues(string(report.Band())).Inc()
	ReportTotalScore.Observe(float64(report.Total))
	for _, c := range report.Criteria {
		if c.Max > 0 {
			CriterionScoreRatio.WithLabelValues(string(c.Kind)).Observe(float64(c.Score) / float64(c.Max))
		}
	}
}

// InstrumentHandler returns middleware that records HTTP request metrics.
// It uses chi's route pattern as the path label to avoid cardinality explosion.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		pattern := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			pattern = rc.RoutePattern()
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(sw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
