package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spboyer/introscore/internal/metrics"
	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/rubric"
	"github.com/spboyer/introscore/internal/transcript"
)

// Version is set at build time or defaults to dev.
var Version = "0.1.0-dev"

const maxBodyBytes = 1 << 20

// Scorer is the part of rubric.Scorer the API depends on.
type Scorer interface {
	Score(ctx context.Context, text string, durationSeconds float64) (*models.ScoreReport, error)
	Criteria() []rubric.Criterion
}

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	scorer Scorer
	logger *slog.Logger
}

// NewHandlers creates a new Handlers backed by the given scorer.
func NewHandlers(scorer Scorer, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{scorer: scorer, logger: logger}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleRubric lists the criteria in display order.
func (h *Handlers) HandleRubric(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.scorer.Criteria())
}

// HandleScore scores one transcript. A missing capability is reported as
// 503 so clients can retry; no partial report is ever returned.
func (h *Handlers) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeError(w, http.StatusBadRequest, "transcript is required")
		return
	}
	if !transcript.ValidDuration(req.DurationSeconds) {
		writeError(w, http.StatusBadRequest, "duration_seconds must be a finite, non-negative number")
		return
	}

	report, err := h.scorer.Score(r.Context(), req.Transcript, req.DurationSeconds)
	if err != nil {
		if errors.Is(err, rubric.ErrEvaluationUnavailable) {
			metrics.EvaluationUnavailableTotal.Inc()
			h.logger.Warn("evaluation unavailable", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
				Error:     err.Error(),
				Code:      http.StatusServiceUnavailable,
				Retryable: true,
			})
			return
		}
		h.logger.Error("scoring failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.ObserveReport(report)
	writeJSON(w, http.StatusOK, ScoreResponse{ScoreReport: report, Band: report.Band()})
}

// NewRouter builds the API router. With no allowed origins, CORS headers are
// never set (same-origin only).
func NewRouter(h *Handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Use(metrics.InstrumentHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Get("/rubric", h.HandleRubric)
		r.Post("/score", h.HandleScore)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
