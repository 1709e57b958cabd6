// Package entropy estimates the information density of byte samples.
// High density is a strong hint that content is encrypted or already
// compressed, which is reported alongside type classification.
package entropy

import "math"

// EncryptedThreshold is the bits-per-byte level at or above which a
// sample is flagged as likely encrypted or compressed.
const EncryptedThreshold = 7.5

// Shannon returns the empirical Shannon entropy of b in bits per byte.
// It builds a 256-bin frequency histogram and sums -p*log2(p) over the
// occupied bins. The result is in [0, 8]; an empty sample yields 0.
func Shannon(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	var freq [256]int
	for _, c := range b {
		freq[c]++
	}
	total := float64(len(b))
	var h float64
	for _, count := range freq {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		h -= p * math.Log2(p)
	}
	return h
}

// LikelyEncrypted reports whether e meets EncryptedThreshold.
func LikelyEncrypted(e float64) bool {
	return e >= EncryptedThreshold
}
