package stream

import (
	"math"

	"github.com/tphakala/simd/f64"
)

// Meter tracks the RMS of the most recent block and the peak absolute
// sample seen since the last ResetPeak, for input diagnostics such as
// spotting a silent or clipping source.
type Meter struct {
	rms  float64
	peak float64
}

// NewMeter creates a zeroed meter.
func NewMeter() *Meter {
	return &Meter{}
}

// Observe consumes one mono block and returns its RMS. Empty blocks
// leave the meter unchanged.
func (m *Meter) Observe(block []float64) float64 {
	if len(block) == 0 {
		return m.rms
	}

	energy := f64.DotProductUnsafe(block, block)
	m.rms = math.Sqrt(energy / float64(len(block)))

	for _, v := range block {
		if a := math.Abs(v); a > m.peak {
			m.peak = a
		}
	}

	return m.rms
}

// RMS returns the RMS of the most recent non-empty block.
func (m *Meter) RMS() float64 { return m.rms }

// Peak returns the largest absolute sample since the last ResetPeak.
func (m *Meter) Peak() float64 { return m.peak }

// ResetPeak clears the held peak; block RMS is untouched.
func (m *Meter) ResetPeak() { m.peak = 0 }

// Reset clears all meter state.
func (m *Meter) Reset() {
	m.rms = 0
	m.peak = 0
}
