package naming

// maxSuggestDistance bounds how far a candidate may be from the input and
// still be offered as a suggestion.
const maxSuggestDistance = 3

// Suggest returns the candidate closest to name after normalization, or ""
// when nothing is close enough. Ties go to the earliest candidate.
func Suggest(name string, candidates []string) string {
	norm := Normalize(name)
	best := ""
	bestDist := maxSuggestDistance + 1

	for _, c := range candidates {
		d := Levenshtein(norm, Normalize(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}

	return best
}

// Levenshtein computes the edit distance between two strings: the minimum
// number of single-character insertions, deletions or substitutions needed to
// turn one into the other.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter string so the rows stay small.
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}
