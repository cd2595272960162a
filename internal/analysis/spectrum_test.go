package analysis

import (
	"math"
	"testing"
)

func TestFFTConstantSignal(t *testing.T) {
	data := []float64{1, 1, 1, 1}
	result := FFT(data)

	// all energy in the DC bin
	if math.Abs(real(result[0])-4) > 1e-9 {
		t.Errorf("dc bin = %v, want 4", result[0])
	}
	for i := 1; i < len(result); i++ {
		if math.Hypot(real(result[i]), imag(result[i])) > 1e-9 {
			t.Errorf("bin %d = %v, want 0", i, result[i])
		}
	}
}

func TestPad(t *testing.T) {
	padded := Pad([]float64{1, 2, 3, 4, 5})
	if len(padded) != 8 {
		t.Errorf("padded length = %d, want 8", len(padded))
	}
	if padded[4] != 5 || padded[5] != 0 {
		t.Errorf("padded = %v", padded)
	}
}

func TestDominantFrequency(t *testing.T) {
	// 4 hz sine sampled at 64 hz for 2 seconds
	sampleRate := 64.0
	n := 128
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / sampleRate)
	}

	ps := PowerSpectrum(data)
	freq := DominantFrequency(ps, sampleRate)
	if math.Abs(freq-4) > 0.5 {
		t.Errorf("dominant frequency = %v, want ~4", freq)
	}
}

func TestDominantFrequencyEmpty(t *testing.T) {
	if DominantFrequency(nil, 60) != 0 {
		t.Error("expected 0 for empty spectrum")
	}
}
