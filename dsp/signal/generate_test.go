package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sdft/dsp/core"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(42))
	g2 := NewGeneratorWithOptions(nil, WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
	}
}

func TestSetSeed(t *testing.T) {
	g := NewGenerator()
	g.SetSeed(99)
	if g.Seed() != 99 {
		t.Fatalf("Seed()=%d, want 99", g.Seed())
	}

	a, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	g.SetSeed(100)
	b, err := g.WhiteNoise(1, 8)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different noise")
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if out[1] != 0.5 {
		t.Fatalf("peak = %v, want 0.5", out[1])
	}
}

func TestMultisineLength(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	out, err := g.Multisine([]float64{1000, 2000}, 1, 64)
	if err != nil {
		t.Fatalf("Multisine() error = %v", err)
	}
	if len(out) != 64 {
		t.Fatalf("len = %d, want 64", len(out))
	}
}

func TestMultisineComponents(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	out, err := g.Multisine([]float64{1000, 2000}, 1, 48)
	if err != nil {
		t.Fatalf("Multisine() error = %v", err)
	}

	a, err := g.Sine(1000, 0.5, 48)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	b, err := g.Sine(2000, 0.5, 48)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}

	for i := range out {
		if math.Abs(out[i]-(a[i]+b[i])) > 1e-12 {
			t.Fatalf("out[%d]=%v, want %v", i, out[i], a[i]+b[i])
		}
	}

	if _, err := g.Multisine(nil, 1, 48); err == nil {
		t.Fatal("expected error for empty frequency list")
	}
}

func TestNoteTonePeak(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	out, err := g.NoteTone(440, 0.8, 6, 4800)
	if err != nil {
		t.Fatalf("NoteTone() error = %v", err)
	}

	peak := 0.0
	for _, v := range out {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if math.Abs(peak-0.8) > 1e-12 {
		t.Fatalf("peak = %v, want 0.8", peak)
	}
}

func TestNoteToneSingleHarmonicIsSine(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	tone, err := g.NoteTone(440, 1, 1, 480)
	if err != nil {
		t.Fatalf("NoteTone() error = %v", err)
	}
	sine, err := g.Sine(440, 1, 480)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	want, err := Normalize(sine, 1)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	for i := range tone {
		if tone[i] != want[i] {
			t.Fatalf("tone[%d]=%v, want %v", i, tone[i], want[i])
		}
	}
}

func TestNoteToneValidation(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	if _, err := g.NoteTone(440, 1, 0, 64); err == nil {
		t.Fatal("expected error for zero harmonics")
	}
	if _, err := g.NoteTone(0, 1, 4, 64); err == nil {
		t.Fatal("expected error for zero frequency")
	}
	if _, err := g.NoteTone(24000, 1, 4, 64); err == nil {
		t.Fatal("expected error for frequency at nyquist")
	}

	// Harmonics that would cross nyquist are dropped, not an error.
	if _, err := g.NoteTone(20000, 1, 8, 64); err != nil {
		t.Fatalf("NoteTone() error = %v", err)
	}
}

func TestRemoveDC(t *testing.T) {
	out, err := RemoveDC([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("RemoveDC() error = %v", err)
	}
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if math.Abs(sum) > 1e-12 {
		t.Fatalf("sum=%v, want near 0", sum)
	}

	if _, err := RemoveDC(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
