package usecase

import (
	"math"
	"testing"
)

func TestMinMaxNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
		{
			name: "single value collapses to zero",
			in:   []float64{7.3},
			want: []float64{0},
		},
		{
			name: "all equal collapse to zero",
			in:   []float64{2.5, 2.5, 2.5},
			want: []float64{0, 0, 0},
		},
		{
			name: "spread maps to unit interval",
			in:   []float64{1, 3, 5},
			want: []float64{0, 0.5, 1},
		},
		{
			name: "negative scores",
			in:   []float64{-4, -2, 0},
			want: []float64{0, 0.5, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := minMaxNormalize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Fatalf("index %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMinMaxNormalizeDoesNotMutateInput(t *testing.T) {
	in := []float64{1, 2, 3}
	_ = minMaxNormalize(in)
	if in[0] != 1 || in[1] != 2 || in[2] != 3 {
		t.Fatalf("input mutated: %v", in)
	}
}
