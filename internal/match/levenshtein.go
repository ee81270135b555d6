package match

// Levenshtein returns the number of single-byte insertions, deletions or
// substitutions that turn a into b.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	// keep one row of the shorter string
	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			next := min(row[i]+1, row[i-1]+1, diag+cost)
			diag, row[i] = row[i], next
		}
	}

	return row[len(a)]
}

// LevenshteinNormalized scores the similarity of a and b between 0 and 1,
// as 1 - distance / max(len(a), len(b)). Two empty strings score 1.
func LevenshteinNormalized(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// NormalizedLevenshteinScore is LevenshteinNormalized over the normalized
// identifiers.
func NormalizedLevenshteinScore(a, b string) float64 {
	return LevenshteinNormalized(NormalizeIdent(a), NormalizeIdent(b))
}
