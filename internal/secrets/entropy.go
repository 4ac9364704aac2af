// Package secrets detects literal credentials in source text using
// keyword patterns backed by entropy scoring.
package secrets

import "math"

// ShannonEntropy calculates the Shannon entropy of a string. Higher
// entropy means more randomness, which is characteristic of real keys:
//   - < 2.0: very low (almost never a secret)
//   - 2.0-3.0: low (probably not a secret)
//   - 3.0-4.0: medium (possible secret)
//   - > 4.0: high (likely a secret)
func ShannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}

	freq := make(map[rune]int)
	for _, r := range s {
		freq[r]++
	}

	length := float64(len(s))
	var entropy float64
	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}
