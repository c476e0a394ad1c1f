package sdft

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-sdft/internal/testutil"
)

// driveBin feeds a full signal through a bin, supplying zero history
// before the first sample the way a silent ring buffer would.
func driveBin(b *Bin, sig []float64) {
	n := b.WindowLen()
	for i, x := range sig {
		oldest := 0.0
		if i >= n {
			oldest = sig[i-n]
		}
		b.Update(x, oldest)
	}
}

func TestNewBinValidation(t *testing.T) {
	tests := []struct {
		name       string
		frequency  float64
		sampleRate float64
		windowLen  int
	}{
		{"zero sample rate", 440, 0, 100},
		{"negative sample rate", 440, -48000, 100},
		{"nan sample rate", 440, math.NaN(), 100},
		{"inf sample rate", 440, math.Inf(1), 100},
		{"negative frequency", -1, 48000, 100},
		{"above nyquist", 24001, 48000, 100},
		{"nan frequency", math.NaN(), 48000, 100},
		{"zero window", 440, 48000, 0},
		{"negative window", 440, 48000, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBin(tt.frequency, tt.sampleRate, tt.windowLen); err == nil {
				t.Fatal("expected construction error")
			}
		})
	}
}

func TestBin_CenterQuantization(t *testing.T) {
	b, err := NewBin(439, 48000, 1000)
	if err != nil {
		t.Fatalf("NewBin: %v", err)
	}

	// 439 Hz over 1000 samples at 48 kHz rounds to bin 9 of the window.
	if b.Index() != 9 {
		t.Fatalf("Index: got %d want 9", b.Index())
	}
	if b.Center() != 432 {
		t.Fatalf("Center: got %v want 432", b.Center())
	}
	if b.Frequency() != 439 {
		t.Fatalf("Frequency: got %v want 439", b.Frequency())
	}
	if b.WindowLen() != 1000 {
		t.Fatalf("WindowLen: got %d want 1000", b.WindowLen())
	}
	if b.SampleRate() != 48000 {
		t.Fatalf("SampleRate: got %v want 48000", b.SampleRate())
	}
}

func TestBin_MatchesDirectDFT(t *testing.T) {
	sampleRate := 48000.0
	n := 1024
	sig := testutil.DeterministicNoise(42, 1.0, n+250)

	b, err := NewBin(1000, sampleRate, n)
	if err != nil {
		t.Fatalf("NewBin: %v", err)
	}

	driveBin(b, sig)

	// Compare with a direct DFT of the final window at the realized
	// center frequency.
	var dft complex128

	window := sig[len(sig)-n:]
	for j, x := range window {
		angle := -2 * math.Pi * float64(b.Index()) * float64(j) / float64(n)
		dft += complex(x, 0) * cmplx.Exp(complex(0, angle))
	}

	wantMag := cmplx.Abs(dft)

	mag := b.Magnitude()
	if math.Abs(mag-wantMag) > 1e-7*wantMag+1e-9 {
		t.Errorf("Magnitude mismatch: got %v, want %v (diff %v)", mag, wantMag, math.Abs(mag-wantMag))
	}

	wantPower := 0.0
	for _, x := range window {
		wantPower += x * x
	}

	pwr := b.WindowPower()
	if math.Abs(pwr-wantPower) > 1e-9*wantPower {
		t.Errorf("WindowPower mismatch: got %v, want %v", pwr, wantPower)
	}
}

func TestBin_SineAtCenterLevelsToOne(t *testing.T) {
	sampleRate := 48000.0
	n := 4800

	// 440 Hz is exactly bin 44 of a 4800-sample window at 48 kHz.
	b, err := NewBin(440, sampleRate, n)
	if err != nil {
		t.Fatalf("NewBin: %v", err)
	}
	if b.Center() != 440 {
		t.Fatalf("Center: got %v want 440", b.Center())
	}

	sig := testutil.DeterministicSine(440, sampleRate, 1.0, 2*n)
	driveBin(b, sig)

	if level := b.Level(); math.Abs(level-1) > 1e-6 {
		t.Fatalf("level: got %v want ~1.0", level)
	}
}

func TestBin_LoudnessIndependence(t *testing.T) {
	sampleRate := 48000.0
	n := 4800

	for _, amp := range []float64{0.01, 0.3, 1.0} {
		b, err := NewBin(440, sampleRate, n)
		if err != nil {
			t.Fatalf("NewBin: %v", err)
		}

		driveBin(b, testutil.DeterministicSine(440, sampleRate, amp, 2*n))

		if level := b.Level(); math.Abs(level-1) > 1e-6 {
			t.Fatalf("amplitude %v: level %v, want ~1.0", amp, level)
		}
	}
}

func TestBin_SilenceLevelsToZero(t *testing.T) {
	b, err := NewBin(440, 48000, 4800)
	if err != nil {
		t.Fatalf("NewBin: %v", err)
	}

	driveBin(b, make([]float64, 2*4800))

	if level := b.Level(); level != 0 {
		t.Fatalf("silence level: got %v want 0", level)
	}

	// A sine followed by a full window of silence must decay back to 0
	// without NaN or Inf from the near-empty power term.
	sig := testutil.DeterministicSine(440, 48000, 1.0, 4800)
	sig = append(sig, make([]float64, 4800)...)

	b.Reset()
	driveBin(b, sig)

	level := b.Level()
	if math.IsNaN(level) || math.IsInf(level, 0) {
		t.Fatalf("level after decay is not finite: %v", level)
	}
	if level != 0 {
		t.Fatalf("level after full silence window: got %v want 0", level)
	}
}

func TestBin_RejectsFarFrequency(t *testing.T) {
	sampleRate := 48000.0
	n := 4800

	b, err := NewBin(440, sampleRate, n)
	if err != nil {
		t.Fatalf("NewBin: %v", err)
	}

	// 297 Hz sits between window bins, over 14 bins away from the
	// 440 Hz target, so only sidelobe leakage reaches the tracker.
	driveBin(b, testutil.DeterministicSine(297, sampleRate, 1.0, 2*n))

	if level := b.Level(); level > 0.05 {
		t.Fatalf("off-frequency level: got %v want < 0.05", level)
	}
}

func TestBin_NegativePowerClamped(t *testing.T) {
	b, err := NewBin(440, 48000, 4800)
	if err != nil {
		t.Fatalf("NewBin: %v", err)
	}

	// Rounding drift can leave the running power slightly negative after
	// long add/subtract sequences.
	b.power = -1e-18

	if got := b.WindowPower(); got != 0 {
		t.Fatalf("WindowPower: got %v want 0", got)
	}
	if got := b.Level(); got != 0 {
		t.Fatalf("Level: got %v want 0", got)
	}
}

func TestBin_Reset(t *testing.T) {
	b, err := NewBin(440, 48000, 480)
	if err != nil {
		t.Fatalf("NewBin: %v", err)
	}

	driveBin(b, testutil.DeterministicSine(440, 48000, 1.0, 960))

	if b.Magnitude() == 0 {
		t.Fatal("magnitude should be non-zero after processing")
	}

	b.Reset()

	if b.Magnitude() != 0 {
		t.Fatalf("magnitude after reset: got %v want 0", b.Magnitude())
	}
	if b.WindowPower() != 0 {
		t.Fatalf("window power after reset: got %v want 0", b.WindowPower())
	}
}
