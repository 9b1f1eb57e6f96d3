// Package semantic provides the embedding capability used when lexical
// keyword matching fails: encode text to a fixed-size vector and compare
// vectors by cosine similarity.
package semantic

import (
	"context"
	"fmt"
	"math"
)

//go:generate go tool mockgen -destination=../mocks/mock_embedder.go -package=mocks . Embedder

// Embedder encodes text to a fixed-length vector. Implementations are
// long-lived, shared and must be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Similarity compares two vectors; the result is in [-1, 1].
type Similarity func(a, b []float32) float64

// DefaultThreshold is the similarity a probe must exceed to count as present.
const DefaultThreshold = 0.35

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths and zero vectors compare as 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, sim))
}

// Fallback decides whether a short probe phrase is semantically present in
// a transcript.
type Fallback struct {
	embedder   Embedder
	threshold  float64
	similarity Similarity
}

// FallbackOption configures a [Fallback].
type FallbackOption func(*Fallback)

// WithThreshold overrides [DefaultThreshold].
func WithThreshold(t float64) FallbackOption { return func(f *Fallback) { f.threshold = t } }

// WithSimilarity overrides [CosineSimilarity].
func WithSimilarity(s Similarity) FallbackOption { return func(f *Fallback) { f.similarity = s } }

// NewFallback creates a [Fallback] around embedder.
func NewFallback(embedder Embedder, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		embedder:   embedder,
		threshold:  DefaultThreshold,
		similarity: CosineSimilarity,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Threshold returns the acceptance threshold.
func (f *Fallback) Threshold() float64 { return f.threshold }

// Encode embeds text with the underlying embedder.
func (f *Fallback) Encode(ctx context.Context, text string) ([]float32, error) {
	vec, err := f.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	return vec, nil
}

// Accepts encodes probe and compares it to the already-encoded text vector.
// It returns the similarity and whether it exceeds the threshold.
func (f *Fallback) Accepts(ctx context.Context, probe string, textVec []float32) (float64, bool, error) {
	probeVec, err := f.Encode(ctx, probe)
	if err != nil {
		return 0, false, err
	}
	sim := f.similarity(textVec, probeVec)
	return sim, sim > f.threshold, nil
}
