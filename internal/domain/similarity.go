package domain

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Similarity scores how alike two strings are on a 0-100 scale. Dedup and
// merge take it as a parameter so alternative matchers (token-set,
// embedding-based) can be substituted without touching their control flow.
type Similarity interface {
	Score(a, b string) int
}

// PartialRatio is the default Similarity: a substring-tolerant
// edit-distance-based score, matching headline variations across publishers
// reporting the same event.
type PartialRatio struct{}

func (PartialRatio) Score(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.PartialRatio(a, b)
}
