package semantic

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// DefaultHashingDimensions is the vector size of [HashingEmbedder].
const DefaultHashingDimensions = 1024

// stopWords never contribute to a hashed vector. Probes all read "my <Category>",
// so pronouns and articles would otherwise match almost any transcript.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "am": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "from": {}, "have": {}, "he": {}, "her": {},
	"his": {}, "i": {}, "in": {}, "is": {}, "it": {}, "its": {}, "me": {}, "my": {},
	"myself": {}, "of": {}, "on": {}, "or": {}, "our": {}, "she": {}, "so": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "there": {}, "they": {}, "this": {}, "to": {},
	"was": {}, "we": {}, "with": {}, "you": {}, "your": {},
}

// HashingEmbedder is an offline embedder: a feature-hashed bag of lowercase
// content words, L2-normalized. It is deterministic and needs no model
// download, at the cost of recognising only shared vocabulary, not paraphrase.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder creates a [HashingEmbedder]; dims <= 0 selects the default.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Name returns the provider name.
func (h *HashingEmbedder) Name() string { return "hashing" }

// Model returns a model identifier that includes the dimensionality.
func (h *HashingEmbedder) Model() string { return "fnv-bow-" + strconv.Itoa(h.dims) }

// Embed never fails. Text made only of stop words embeds to the zero vector.
func (h *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, w := range words {
		if _, ok := stopWords[w]; ok {
			continue
		}
		idx := int(bucketHash(w) % uint64(h.dims))
		// The sign comes from an independent hash so colliding words
		// cancel as often as they reinforce.
		if signHash(w)&1 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

func bucketHash(w string) uint64 {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(w))
	return hasher.Sum64()
}

func signHash(w string) uint32 {
	hasher := fnv.New32()
	_, _ = hasher.Write([]byte(w))
	return hasher.Sum32()
}
