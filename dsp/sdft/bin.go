package sdft

import (
	"fmt"
	"math"
	"math/cmplx"
)

// minMeanPower floors the level normalization denominator. Windows whose
// mean sample power falls below it (an RMS under 1e-6, about -120 dBFS)
// report level 0 instead of amplifying numeric noise in near-silence.
const minMeanPower = 1e-12

// Bin tracks the spectral content at one frequency with a sliding DFT.
//
// Instead of recomputing an N-sample transform per step, the bin keeps a
// complex accumulator that is updated in O(1) per sample: the sample
// leaving the analysis window is subtracted, the sample entering it is
// added, and the sum is rotated by a fixed coefficient. After N updates
// the accumulator equals the single-bin DFT of the most recent N samples
// over a rectangular window.
//
// Behavior and Semantics:
//
// The bin is stateful. Update must be called once per sample in arrival
// order, with the newest sample and the sample exactly WindowLen steps
// older (the caller keeps that history, typically in a ring buffer).
// Level then reports a loudness-independent presence ratio: a pure sine
// at the bin center reads 1.0 whatever its amplitude, and uncorrelated
// content reads near 0. Non-finite input samples propagate into the
// accumulator and surface as non-finite levels; inputs are never
// silently clamped.
type Bin struct {
	target     float64
	sampleRate float64
	k          int
	n          int
	coeff      complex128
	s          complex128
	power      float64
}

// NewBin creates a tracker for the target frequency analyzed over
// windowLen samples.
//
// frequency must be between 0 and sampleRate/2. The realized center
// frequency is the target rounded to an integer number of cycles per
// window; see Center.
func NewBin(frequency, sampleRate float64, windowLen int) (*Bin, error) {
	b, err := makeBin(frequency, sampleRate, windowLen)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func makeBin(frequency, sampleRate float64, windowLen int) (Bin, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Bin{}, fmt.Errorf("sdft: sample rate must be > 0: %v", sampleRate)
	}

	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return Bin{}, fmt.Errorf("sdft: frequency must be between 0 and sampleRate/2: %v", frequency)
	}

	if windowLen <= 0 {
		return Bin{}, fmt.Errorf("sdft: window length must be > 0: %d", windowLen)
	}

	k := int(math.Round(frequency * float64(windowLen) / sampleRate))

	return Bin{
		target:     frequency,
		sampleRate: sampleRate,
		k:          k,
		n:          windowLen,
		coeff:      cmplx.Exp(complex(0, 2*math.Pi*float64(k)/float64(windowLen))),
	}, nil
}

// Update advances the tracker by one sample. current is the newest
// sample; oldest is the sample WindowLen steps before it, now leaving
// the analysis window.
func (b *Bin) Update(current, oldest float64) {
	b.s = (b.s + complex(current-oldest, 0)) * b.coeff
	b.power += current*current - oldest*oldest
}

// Level returns the power-normalized magnitude: the accumulator
// magnitude scaled so that a pure sine at the bin center reads 1.0
// regardless of amplitude. Near-silent windows read 0.
func (b *Bin) Level() float64 {
	return b.level(cmplx.Abs(b.s))
}

// level normalizes a precomputed accumulator magnitude. The window
// power is clamped at zero first: the incremental updates accumulate
// rounding error that can drive it slightly negative on long runs.
func (b *Bin) level(magnitude float64) float64 {
	p := b.power
	if p < 0 {
		p = 0
	}

	if p < minMeanPower*float64(b.n) {
		return 0
	}

	return magnitude / math.Sqrt(0.5*float64(b.n)*p)
}

// Magnitude returns the raw accumulator magnitude |S| without power
// normalization.
func (b *Bin) Magnitude() float64 {
	return cmplx.Abs(b.s)
}

// WindowPower returns the running sum of squared samples inside the
// window, clamped at zero.
func (b *Bin) WindowPower() float64 {
	if b.power < 0 {
		return 0
	}

	return b.power
}

// Reset clears the accumulator and window power.
func (b *Bin) Reset() {
	b.s = 0
	b.power = 0
}

// Frequency returns the target frequency the bin was constructed for.
func (b *Bin) Frequency() float64 { return b.target }

// Center returns the realized center frequency k*sampleRate/windowLen,
// the target quantized to a whole number of cycles per window.
func (b *Bin) Center() float64 {
	return float64(b.k) * b.sampleRate / float64(b.n)
}

// Index returns the integer bin number k within the bin's own window.
func (b *Bin) Index() int { return b.k }

// WindowLen returns the analysis window length in samples.
func (b *Bin) WindowLen() int { return b.n }

// SampleRate returns the sample rate the bin was built for.
func (b *Bin) SampleRate() float64 { return b.sampleRate }
