// Package dedupe groups location records into candidate duplicate sets and
// decides which record in each set survives.
package dedupe

// DefaultSimilarityThreshold is the minimum similarity for a fuzzy match in
// search mode. Tunable via Matcher.Threshold.
const DefaultSimilarityThreshold = 0.80

// Similarity returns a symmetric score in [0, 1] for two strings: 1 for equal
// strings (including two empty strings), otherwise
// (maxLen - editDistance) / maxLen over the full strings.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}

	return float64(maxLen-editDistance(ra, rb)) / float64(maxLen)
}

// editDistance computes the Levenshtein distance (insert, delete, substitute,
// each cost 1) by dynamic programming over two rune slices, keeping a single
// row of the DP table.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current := prev[0]
		prev[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min3(
				prev[j]+1,    // deletion
				prev[j-1]+1,  // insertion
				current+cost, // substitution
			)
			current = prev[j]
			prev[j] = next
		}
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
