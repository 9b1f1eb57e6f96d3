// Package transcript holds the immutable input of a scoring pass: the spoken
// text and the audio duration, plus the views derived from them.
package transcript

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Transcript is the raw text plus its stated audio duration. Derived views are
// computed once at construction and never change afterwards.
type Transcript struct {
	text            string
	durationSeconds float64

	lower       string
	tokens      []string
	lowerTokens []string
	sentences   []string
}

// ValidDuration reports whether seconds is a usable audio duration: finite
// and not negative. Zero is valid and means the duration is unknown.
func ValidDuration(seconds float64) bool {
	return seconds >= 0 && !math.IsInf(seconds, 1)
}

// New builds a Transcript. The text is NFC-normalized so that composed and
// decomposed forms of the same word compare equal.
func New(text string, durationSeconds float64) *Transcript {
	text = norm.NFC.String(text)
	lower := strings.ToLower(text)

	return &Transcript{
		text:            text,
		durationSeconds: durationSeconds,
		lower:           lower,
		tokens:          strings.Fields(text),
		lowerTokens:     strings.Fields(lower),
		sentences:       splitSentences(text),
	}
}

// Text returns the normalized transcript text.
func (t *Transcript) Text() string { return t.text }

// DurationSeconds returns the stated audio duration.
func (t *Transcript) DurationSeconds() float64 { return t.durationSeconds }

// Lower returns the lowercase form of the text.
func (t *Transcript) Lower() string { return t.lower }

// Tokens returns the whitespace-split tokens of the original text.
func (t *Transcript) Tokens() []string { return t.tokens }

// LowerTokens returns the whitespace-split tokens of the lowercase text.
func (t *Transcript) LowerTokens() []string { return t.lowerTokens }

// Sentences returns the period-delimited sentences, trimmed, without empty fragments.
func (t *Transcript) Sentences() []string { return t.sentences }

// WordCount is the number of whitespace-separated tokens.
func (t *Transcript) WordCount() int { return len(t.tokens) }

// IsBlank reports whether the text has no tokens at all.
func (t *Transcript) IsBlank() bool { return len(t.tokens) == 0 }

func splitSentences(text string) []string {
	parts := strings.Split(text, ".")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
