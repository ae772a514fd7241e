package fuzzy

import (
	"math"
	"sort"
	"strings"
)

const (
	unbaseScale = 0.95
	// length ratios at which WRatio switches to partial scoring
	partialThreshold     = 1.5
	longPartialThreshold = 8.0
)

// Ratio is the normalized Indel similarity of a and b in 0..100.
func Ratio(a, b string) float64 {
	return indelRatio([]rune(a), []rune(b))
}

func indelRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcs(a, b)) / float64(total)
}

// lcs returns the length of the longest common subsequence.
func lcs(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// PartialRatio scores the shorter string against the best aligned window
// of the longer one, including windows that overhang either end.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}
	m, n := len(short), len(long)
	best := 0.0
	for start := -(m - 1); start < n; start++ {
		lo, hi := max(start, 0), min(start+m, n)
		score := indelRatio(short, long[lo:hi])
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) []string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return tokens
}

// TokenSortRatio compares both strings after sorting their words.
func TokenSortRatio(a, b string) float64 {
	return Ratio(strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " "))
}

type tokenSets struct {
	intersection, onlyA, onlyB []string
}

func splitTokenSets(a, b string) tokenSets {
	inA := map[string]struct{}{}
	for _, t := range strings.Fields(a) {
		inA[t] = struct{}{}
	}
	inB := map[string]struct{}{}
	for _, t := range strings.Fields(b) {
		inB[t] = struct{}{}
	}
	var sets tokenSets
	for t := range inA {
		if _, ok := inB[t]; ok {
			sets.intersection = append(sets.intersection, t)
		} else {
			sets.onlyA = append(sets.onlyA, t)
		}
	}
	for t := range inB {
		if _, ok := inA[t]; !ok {
			sets.onlyB = append(sets.onlyB, t)
		}
	}
	sort.Strings(sets.intersection)
	sort.Strings(sets.onlyA)
	sort.Strings(sets.onlyB)
	return sets
}

// TokenSetRatio compares the shared words of both strings against each
// string's full word set.
func TokenSetRatio(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	sets := splitTokenSets(a, b)
	if len(sets.intersection) > 0 && (len(sets.onlyA) == 0 || len(sets.onlyB) == 0) {
		return 100
	}
	sect := strings.Join(sets.intersection, " ")
	withA := strings.TrimSpace(sect + " " + strings.Join(sets.onlyA, " "))
	withB := strings.TrimSpace(sect + " " + strings.Join(sets.onlyB, " "))
	best := Ratio(withA, withB)
	if sect != "" {
		best = max(best, Ratio(sect, withA), Ratio(sect, withB))
	}
	return best
}

func partialTokenRatio(a, b string) float64 {
	sets := splitTokenSets(a, b)
	if len(sets.intersection) > 0 {
		return 100
	}
	return PartialRatio(strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " "))
}

// WRatio combines the ratios above, weighting partial scores down when the
// lengths of a and b differ a lot. Symmetric in a and b.
func WRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	score := Ratio(a, b)
	if lenRatio < partialThreshold {
		token := max(TokenSortRatio(a, b), TokenSetRatio(a, b))
		return math.Max(score, token*unbaseScale)
	}

	partialScale := 0.9
	if lenRatio >= longPartialThreshold {
		partialScale = 0.6
	}
	score = math.Max(score, PartialRatio(a, b)*partialScale)
	return math.Max(score, partialTokenRatio(a, b)*unbaseScale*partialScale)
}
