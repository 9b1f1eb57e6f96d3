package sentiment

import (
	"context"

	"github.com/jonreiter/govader"
)

// VaderAnalyzer scores polarity with the VADER rule set. Its compound score
// already lies in [-1, 1] but runs hotter than the lexicon mean: a single
// "love" is enough to clear the engagement cut-off.
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVaderAnalyzer creates a [VaderAnalyzer] with the bundled VADER lexicon.
func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the VADER compound score. It never fails.
func (v *VaderAnalyzer) Polarity(_ context.Context, text string) (float64, error) {
	return clamp(v.sia.PolarityScores(text).Compound), nil
}
