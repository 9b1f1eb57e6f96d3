// Package lexical contains the string predicates shared by the rubric criteria.
// All functions expect already-lowercased input; matching is plain substring
// or exact-token comparison.
package lexical

import "strings"

// ContainsAny reports whether any of the phrases occurs in text.
func ContainsAny(text string, phrases []string) bool {
	_, ok := FirstMatch(text, phrases)
	return ok
}

// FirstMatch returns the first phrase, in declaration order, that occurs in text.
func FirstMatch(text string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return p, true
		}
	}
	return "", false
}

// FirstPresentIndex returns the character index of the first phrase, in
// declaration order, that occurs in text, or -1 if none does. Declaration
// order wins over position: for phrases ["hello", "hi"] and text "hi, hello",
// the result is the index of "hello".
func FirstPresentIndex(text string, phrases []string) int {
	if p, ok := FirstMatch(text, phrases); ok {
		return strings.Index(text, p)
	}
	return -1
}

// CountTokens counts the tokens that exactly equal a member of vocabulary.
func CountTokens(tokens []string, vocabulary map[string]struct{}) int {
	n := 0
	for _, tok := range tokens {
		if _, ok := vocabulary[tok]; ok {
			n++
		}
	}
	return n
}

// DistinctCount returns the number of distinct tokens.
func DistinctCount(tokens []string) int {
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		seen[tok] = struct{}{}
	}
	return len(seen)
}

// Set builds a lookup set from words.
func Set(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
