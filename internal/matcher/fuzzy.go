package matcher

// Similarity scores how close two strings are on a 0..1 scale, where 1 is
// an exact match. Inputs are expected to be normalized already.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(osaDistance(a, b))/float64(maxLen)
}

// osaDistance computes the optimal string alignment distance: edit
// distance with adjacent transpositions counted as a single operation,
// so common typos like "bonjuor" stay close to "bonjour".
func osaDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				matrix[i][j] = min(matrix[i][j], matrix[i-2][j-2]+1) // transposition
			}
		}
	}

	return matrix[len(a)][len(b)]
}
