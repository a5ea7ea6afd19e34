package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/brunobiangulo/legalrag"
)

// deterministicFallback derives a unit-length pseudo-random vector from
// a hash of text, so the same text always maps to the same vector
// (spec.md §6.1: "deterministic per (model, text)" even on the fallback
// path). It is never all-zero.
func deterministicFallback(text string, dimension int) legalrag.Embedding {
	if dimension <= 0 {
		dimension = 1
	}
	sum := sha256.Sum256([]byte(text))

	vec := make(legalrag.Embedding, dimension)
	state := sum
	var sumSquares float64
	for i := 0; i < dimension; i++ {
		if i > 0 && i%8 == 0 {
			state = sha256.Sum256(state[:])
		}
		offset := (i % 8) * 4
		bits := binary.BigEndian.Uint32(state[offset : offset+4])
		// Map to [-1, 1].
		v := float32(bits)/float32(math.MaxUint32)*2 - 1
		vec[i] = v
		sumSquares += float64(v) * float64(v)
	}

	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
