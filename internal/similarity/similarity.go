// Package similarity provides cosine similarity and best-match
// selection over embedding vectors.
package similarity

import (
	"errors"
	"math"
)

var (
	// ErrDimensionMismatch indicates vectors of different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrZeroMagnitude indicates a zero-magnitude vector, for which
	// cosine similarity is undefined. Callers skip such vectors.
	ErrZeroMagnitude = errors.New("zero magnitude vector")
)

// Cosine computes the cosine similarity of two vectors:
// dot(a, b) / (|a| * |b|). The result is in [-1, 1]; for embedding
// vectors it is effectively [0, 1].
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)
	if magA == 0 || magB == 0 {
		return 0, ErrZeroMagnitude
	}

	return dot / (magA * magB), nil
}

// BestMatch scans vectors for the one most similar to query and returns
// its index and score. Empty vectors and vectors the query cannot be
// compared against are skipped. Only a strictly greater score replaces
// the running best, so ties resolve to the first vector seen in scan
// order. The running best starts at zero, which means non-positive
// scores never produce a match. Returns (-1, 0) when no vector was
// usable.
func BestMatch(query []float32, vectors [][]float32) (int, float64) {
	best := -1
	var bestScore float64
	for i, v := range vectors {
		if len(v) == 0 {
			continue
		}
		score, err := Cosine(query, v)
		if err != nil {
			continue
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best == -1 {
		return -1, 0
	}
	return best, bestScore
}
