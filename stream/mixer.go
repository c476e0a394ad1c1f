package stream

import (
	"fmt"

	"github.com/cwbudde/algo-sdft/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Mixer folds per-channel sample blocks into one mono block, scaling by
// 1/channels so that the mono peak cannot exceed the channel peak.
type Mixer struct {
	scratch []float64
}

// NewMixer creates a mixer. The configured block size presizes the
// widening scratch so steady-state mixing does not allocate.
func NewMixer(opts ...core.ProcessorOption) *Mixer {
	cfg := core.ApplyProcessorOptions(opts...)
	return &Mixer{
		scratch: make([]float64, 0, cfg.BlockSize),
	}
}

// Mix sums the channel blocks into dst and returns it, growing dst as
// needed. All channels must share one length; the length may change
// between calls.
func (m *Mixer) Mix(dst []float64, channels ...[]float64) ([]float64, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("stream: mix needs at least one channel")
	}
	n := len(channels[0])
	for i, ch := range channels[1:] {
		if len(ch) != n {
			return nil, fmt.Errorf("stream: channel %d length %d does not match channel 0 length %d",
				i+1, len(ch), n)
		}
	}

	dst = core.EnsureLen(dst, n)
	copy(dst, channels[0])
	for _, ch := range channels[1:] {
		vecmath.AddBlockInPlace(dst, ch)
	}
	if len(channels) > 1 {
		vecmath.ScaleBlock(dst, dst, 1/float64(len(channels)))
	}
	return dst, nil
}

// MixFloat32 widens single-precision callback buffers to float64 and
// mixes them like Mix.
func (m *Mixer) MixFloat32(dst []float64, channels ...[]float32) ([]float64, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("stream: mix needs at least one channel")
	}
	n := len(channels[0])
	for i, ch := range channels[1:] {
		if len(ch) != n {
			return nil, fmt.Errorf("stream: channel %d length %d does not match channel 0 length %d",
				i+1, len(ch), n)
		}
	}

	dst = core.EnsureLen(dst, n)
	m.scratch = core.EnsureLen(m.scratch, n)

	widen(dst, channels[0])
	for _, ch := range channels[1:] {
		widen(m.scratch, ch)
		vecmath.AddBlockInPlace(dst, m.scratch)
	}
	if len(channels) > 1 {
		vecmath.ScaleBlock(dst, dst, 1/float64(len(channels)))
	}
	return dst, nil
}

func widen(dst []float64, src []float32) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}
