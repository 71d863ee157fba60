package audio

import (
	"reflect"
	"testing"
)

func TestResamplerPassthrough(t *testing.T) {
	r := NewResampler(48000, 48000)
	in := []int16{1, 2, 3, 4, 5, 6}
	if got := r.Process(in); !reflect.DeepEqual(got, in) {
		t.Errorf("Process = %v, want %v", got, in)
	}
}

func TestResamplerFrameCounts(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		in       int
		batches  int
		want     int
	}{
		{"upsample 2x", 24000, 48000, 100, 10, 2000},
		{"downsample 2x", 48000, 24000, 100, 10, 500},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResampler(tc.from, tc.to)
			total := 0
			for i := 0; i < tc.batches; i++ {
				total += len(r.Process(make([]int16, tc.in*2))) / 2
			}
			if diff := total - tc.want; diff < -2 || diff > 2 {
				t.Errorf("produced %d frames, want about %d", total, tc.want)
			}
		})
	}
}

func TestResamplerConstantSignal(t *testing.T) {
	r := NewResampler(32040, 48000)
	in := make([]int16, 64)
	for i := 0; i < len(in); i += 2 {
		in[i], in[i+1] = 1000, -1000
	}
	for batch := 0; batch < 3; batch++ {
		out := r.Process(in)
		for i := 0; i < len(out); i += 2 {
			if out[i] != 1000 || out[i+1] != -1000 {
				t.Fatalf("batch %d frame %d = %d,%d; want 1000,-1000", batch, i/2, out[i], out[i+1])
			}
		}
	}
}

func TestResamplerInterpolates(t *testing.T) {
	r := NewResampler(1, 2)
	out := r.Process([]int16{0, 0, 100, 200})
	// Positions 0, 0.5, 1, 1.5 over [prev=0, 0, 100].
	want := []int16{0, 0, 0, 0, 0, 0, 50, 100}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Process = %v, want %v", out, want)
	}
}
