package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitVector(dim, axis int) []float64 {
	v := make([]float64, dim)
	v[axis] = 1.0
	return v
}

func TestSerialize_RoundTrip(t *testing.T) {
	v := []float64{0.25, -0.5, 0.125, 0.825}

	text, err := Serialize(v)
	require.NoError(t, err)

	got, err := Deserialize(text)
	require.NoError(t, err)
	require.Len(t, got, len(v))
	for i := range v {
		assert.InDelta(t, v[i], got[i], 1e-12)
	}
}

func TestSerialize_EmptyVector(t *testing.T) {
	_, err := Serialize(nil)
	assert.ErrorIs(t, err, ErrEmptyVector)

	_, err = Serialize([]float64{})
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestDeserialize_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "definitely not a vector"},
		{"wrong type", `{"a": 1}`},
		{"non numeric elements", `["a", "b"]`},
		{"empty array", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(tt.text)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestSimilarity_IdenticalUnitVectors(t *testing.T) {
	v := Normalize([]float64{0.3, -0.4, 0.5, 0.7})

	sim, err := Similarity(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestSimilarity_OrthogonalUnitVectors(t *testing.T) {
	a := unitVector(Dim, 0)
	b := unitVector(Dim, 1)

	sim, err := Similarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-9)
}

func TestSimilarity_OppositeVectors(t *testing.T) {
	a := unitVector(4, 2)
	b := []float64{0, 0, -1, 0}

	sim, err := Similarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 1e-9)
}

func TestSimilarity_DimensionMismatch(t *testing.T) {
	_, err := Similarity(make([]float64, Dim), make([]float64, Dim-1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSimilarity_ZeroNorm(t *testing.T) {
	a := make([]float64, Dim)
	b := unitVector(Dim, 0)

	sim, err := Similarity(a, b)
	assert.ErrorIs(t, err, ErrZeroNorm)
	assert.Equal(t, 0.0, sim)

	sim, err = Similarity(b, a)
	assert.ErrorIs(t, err, ErrZeroNorm)
	assert.Equal(t, 0.0, sim)
}

func TestSimilarity_IgnoresScale(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{2, 4, 6}

	sim, err := Similarity(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestNormalize(t *testing.T) {
	v := []float64{3, 4}
	n := Normalize(v)

	assert.InDelta(t, 0.6, n[0], 1e-9)
	assert.InDelta(t, 0.8, n[1], 1e-9)
	assert.True(t, IsNormalized(n))

	// original untouched
	assert.Equal(t, []float64{3, 4}, v)
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := make([]float64, 8)
	assert.Equal(t, v, Normalize(v))
}

func TestIsNormalized_Tolerance(t *testing.T) {
	v := unitVector(Dim, 0)
	v[0] = 1.005 // within 0.01 tolerance
	assert.True(t, IsNormalized(v))

	v[0] = 1.2
	assert.False(t, IsNormalized(v))
}
