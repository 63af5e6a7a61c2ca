package vectorstore

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float32
	}{
		{
			name: "identical vectors",
			a:    []float32{1, 2, 3},
			b:    []float32{1, 2, 3},
			want: 1,
		},
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0,
		},
		{
			name: "opposite vectors",
			a:    []float32{1, 0},
			b:    []float32{-1, 0},
			want: -1,
		},
		{
			name: "scaling does not change similarity",
			a:    []float32{1, 2, 3},
			b:    []float32{10, 20, 30},
			want: 1,
		},
		{
			name: "zero vector scores zero",
			a:    []float32{0, 0, 0},
			b:    []float32{1, 2, 3},
			want: 0,
		},
		{
			name: "length mismatch scores zero",
			a:    []float32{1, 2},
			b:    []float32{1, 2, 3},
			want: 0,
		},
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := []float32{0.3, -1.2, 4.5, 0.01}
	b := []float32{2.2, 0.9, -0.4, 1.1}

	ab := CosineSimilarity(a, b)
	ba := CosineSimilarity(b, a)
	if ab != ba {
		t.Errorf("CosineSimilarity not symmetric: %v vs %v", ab, ba)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		vector []float32
	}{
		{
			name:   "empty vector",
			vector: []float32{},
		},
		{
			name:   "typical vector",
			vector: []float32{0.1, -0.5, 3.14159, 0},
		},
		{
			name:   "extreme values",
			vector: []float32{math.MaxFloat32, -math.MaxFloat32, math.SmallestNonzeroFloat32},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeVector(encodeVector(tt.vector))
			if len(got) != len(tt.vector) {
				t.Fatalf("round trip length = %d, want %d", len(got), len(tt.vector))
			}
			for i := range got {
				if got[i] != tt.vector[i] {
					t.Errorf("round trip [%d] = %v, want %v", i, got[i], tt.vector[i])
				}
			}
		})
	}
}
