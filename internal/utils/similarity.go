// internal/utils/similarity.go
package utils

// SimilarityPercent scores how alike two strings are, from 0 to 100.
// It sums the lengths of shared substrings: the longest common substring
// is located first, then the regions to its left and right are compared
// recursively. The score is the shared length relative to both inputs.
func SimilarityPercent(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	shared := commonChars(ra, rb)
	return float64(shared*2) * 100 / float64(total)
}

func commonChars(a, b []rune) int {
	posA, posB, length := longestCommon(a, b)
	if length == 0 {
		return 0
	}
	sum := length
	sum += commonChars(a[:posA], b[:posB])
	sum += commonChars(a[posA+length:], b[posB+length:])
	return sum
}

// longestCommon finds the first longest common substring of a and b and
// returns its start positions and length.
func longestCommon(a, b []rune) (int, int, int) {
	var posA, posB, max int
	for i := range a {
		for j := range b {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > max {
				posA, posB, max = i, j, k
			}
		}
	}
	return posA, posB, max
}
