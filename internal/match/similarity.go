package match

// Similarity computes a normalized edit-distance similarity between two
// strings in [0,1]. It is symmetric, and 1.0 when both inputs are empty.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	// Compute against the longer string so the denominator is maxLen.
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	distance := levenshtein(ra, rb)
	maxLen := len(ra)
	return float64(maxLen-distance) / float64(maxLen)
}

// levenshtein is the classic unit-cost edit distance with the single-row
// rolling-array technique: O(n*m) time, O(min(n,m)) space. b must be the
// shorter string.
func levenshtein(a, b []rune) int {
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			substitution := prev + cost
			insertion := row[j-1] + 1
			deletion := row[j] + 1

			next := substitution
			if insertion < next {
				next = insertion
			}
			if deletion < next {
				next = deletion
			}
			prev = row[j]
			row[j] = next
		}
	}
	return row[len(b)]
}
