// Package sentiment provides the polarity capability used by the engagement
// criterion.
package sentiment

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:generate go tool mockgen -destination=../mocks/mock_analyzer.go -package=mocks . Analyzer

// Analyzer returns the polarity of text in [-1, 1]. Implementations are
// long-lived, shared and must be safe for concurrent use.
type Analyzer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

//go:embed lexicon.yaml
var defaultLexicon []byte

// negationWeight is applied to a polar word preceded by a negation.
const negationWeight = -0.5

// Lexicon is the word list a [LexiconAnalyzer] scores with.
type Lexicon struct {
	Words        map[string]float64 `yaml:"words"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`
}

// LexiconAnalyzer scores polarity as the mean of the polar words found in
// the text, after intensifier and negation adjustments.
type LexiconAnalyzer struct {
	words        map[string]float64
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// NewLexiconAnalyzer creates an analyzer from the built-in lexicon.
func NewLexiconAnalyzer() (*LexiconAnalyzer, error) {
	return ParseLexicon(defaultLexicon)
}

// LoadLexicon creates an analyzer from a YAML lexicon file.
func LoadLexicon(path string) (*LexiconAnalyzer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon creates an analyzer from YAML lexicon data.
func ParseLexicon(data []byte) (*LexiconAnalyzer, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}
	if len(lex.Words) == 0 {
		return nil, fmt.Errorf("lexicon has no words")
	}

	a := &LexiconAnalyzer{
		words:        make(map[string]float64, len(lex.Words)),
		intensifiers: make(map[string]float64, len(lex.Intensifiers)),
		negations:    make(map[string]struct{}, len(lex.Negations)),
	}
	for w, p := range lex.Words {
		if p < -1 || p > 1 {
			return nil, fmt.Errorf("polarity of %q is %v, must be within [-1, 1]", w, p)
		}
		a.words[strings.ToLower(w)] = p
	}
	for w, m := range lex.Intensifiers {
		a.intensifiers[strings.ToLower(w)] = m
	}
	for _, w := range lex.Negations {
		a.negations[strings.ToLower(w)] = struct{}{}
	}
	return a, nil
}

// Polarity never fails; text without polar words is neutral (0).
func (a *LexiconAnalyzer) Polarity(_ context.Context, text string) (float64, error) {
	tokens := words(text)

	var sum float64
	var n int
	for i, tok := range tokens {
		p, ok := a.words[tok]
		if !ok {
			continue
		}

		if i > 0 {
			if m, ok := a.intensifiers[tokens[i-1]]; ok {
				p = clamp(p * m)
			}
		}
		if a.negated(tokens, i) {
			p *= negationWeight
		}

		sum += p
		n++
	}

	if n == 0 {
		return 0, nil
	}
	return clamp(sum / float64(n)), nil
}

func (a *LexiconAnalyzer) negated(tokens []string, i int) bool {
	for j := max(0, i-2); j < i; j++ {
		if _, ok := a.negations[tokens[j]]; ok {
			return true
		}
		if strings.HasSuffix(tokens[j], "n't") {
			return true
		}
	}
	return false
}

// words splits lowercase text into letter runs, keeping apostrophes so that
// contractions such as "don't" stay whole.
func words(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
