package sqlite

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillega/shoprec/store"
)

func TestFloat32ArrayToBLOBRoundTrip(t *testing.T) {
	vec := make([]float32, store.EmbeddingDim)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}

	blob, err := float32ArrayToBLOB(vec)
	require.NoError(t, err)
	assert.Len(t, blob, store.EmbeddingDim*4)

	got, err := blobToFloat32Array(blob)
	require.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestFloat32ArrayToBLOB_RejectsWrongDimension(t *testing.T) {
	_, err := float32ArrayToBLOB([]float32{0.1, 0.2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid vector dimension")
}

func TestBlobToFloat32Array_RejectsWrongLength(t *testing.T) {
	_, err := blobToFloat32Array(make([]byte, 8))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid BLOB length")
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineDistance(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCosineDistance_ScaleInvariant(t *testing.T) {
	a := []float32{0.3, 0.4, 0.5}
	b := []float32{0.6, 0.8, 1.0}

	assert.InDelta(t, 0, cosineDistance(a, b), 1e-6, "scaled copies should have distance 0")
	assert.False(t, math.IsNaN(cosineDistance(a, b)))
}
