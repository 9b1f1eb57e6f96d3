package webapi

import "github.com/spboyer/introscore/internal/models"

// ScoreRequest is the body of POST /api/score.
type ScoreRequest struct {
	Transcript      string  `json:"transcript"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// ScoreResponse is the API response for a scored transcript.
type ScoreResponse struct {
	*models.ScoreReport
	Band models.Band `json:"band"`
}

// HealthResponse is the API response for the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the API error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	Retryable bool   `json:"retryable,omitempty"`
}
