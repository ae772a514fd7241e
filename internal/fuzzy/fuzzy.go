// Package fuzzy ranks names by weighted string similarity after stripping
// diacritics, so "Thráll" typed on one side matches "Thrall" on the other.
package fuzzy

import (
	"math"
	"slices"
)

const (
	DefaultLimit  = 10
	DefaultCutoff = 80
)

// Match is one ranked candidate. Index is its position in the input slice.
type Match struct {
	Key   string
	Score int
	Index int
}

// Score returns the 0..100 similarity of query and candidate.
func Score(query, candidate string) int {
	return int(math.Round(WRatio(Normalize(query), Normalize(candidate))))
}

// RankCandidates scores every candidate against query and returns those
// scoring at least cutoff, best first. Equal scores keep input order.
// A limit of zero or less returns every match.
func RankCandidates(query string, candidates []string, limit, cutoff int) []Match {
	matches := make([]Match, 0, len(candidates))
	q := Normalize(query)
	for i, candidate := range candidates {
		score := int(math.Round(WRatio(q, Normalize(candidate))))
		if score < cutoff {
			continue
		}
		matches = append(matches, Match{Key: candidate, Score: score, Index: i})
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return b.Score - a.Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Best returns the highest scoring candidate, or false if there are none.
func Best(query string, candidates []string) (Match, bool) {
	matches := RankCandidates(query, candidates, 1, 0)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}
