// Package embedding implements the reference-embedding store primitives:
// a text serialization for fixed-length face embeddings and cosine
// similarity between two vectors.
package embedding

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Dim is the embedding dimension produced by the ArcFace family of models.
const Dim = 512

// normTolerance is how far from 1.0 a norm may drift before a vector is
// considered non-normalized.
const normTolerance = 0.01

var (
	ErrEmptyVector       = errors.New("embedding: empty vector")
	ErrMalformed         = errors.New("embedding: malformed serialized embedding")
	ErrDimensionMismatch = errors.New("embedding: dimension mismatch")

	// ErrZeroNorm sinaliza um vetor degenerado (norma zero). Recuperável:
	// Similarity devolve 0.0 junto com este erro e o chamador pode tratar
	// como "sem correspondência".
	ErrZeroNorm = errors.New("embedding: zero-norm vector")
)

// Serialize encodes a vector as a JSON array of floats, the same text form
// the enrollment flow persists in the students table.
func Serialize(v []float64) (string, error) {
	if len(v) == 0 {
		return "", ErrEmptyVector
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialize embedding: %w", err)
	}
	return string(data), nil
}

// Deserialize is the inverse of Serialize.
func Deserialize(text string) ([]float64, error) {
	var v []float64
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: decoded to empty sequence", ErrMalformed)
	}
	return v, nil
}

// Similarity computes the cosine similarity dot(a,b)/(|a|*|b|).
// Returns ErrDimensionMismatch when lengths differ. A zero-norm operand
// yields (0.0, ErrZeroNorm).
func Similarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, ErrEmptyVector
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroNorm
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// IsNormalized reports whether the vector already has unit norm within
// tolerance. The store never re-normalizes on behalf of the caller; that is
// the embedding producer's job, once, at extraction time.
func IsNormalized(v []float64) bool {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	return math.Abs(math.Sqrt(norm)-1.0) <= normTolerance
}

// Normalize scales a vector to unit length. Zero vectors are returned as-is.
func Normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)

	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
