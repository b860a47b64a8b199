// Package fuzzy scores string similarity on a 0-100 scale using normalized
// indel distance over sorted tokens.
package fuzzy

import (
	"sort"
	"strings"
)

// Ratio returns 100 * (1 - indel distance / (len(a)+len(b))), computed over
// runes. Two empty strings score 100.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcs(ra, rb)) / float64(total)
}

// TokenSortRatio compares a and b after lowercasing, splitting on whitespace
// and sorting the tokens, so word order does not matter.
func TokenSortRatio(a, b string) float64 {
	return Ratio(SortTokens(a), SortTokens(b))
}

// SortTokens lowercases s and joins its sorted whitespace-separated tokens.
func SortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
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
