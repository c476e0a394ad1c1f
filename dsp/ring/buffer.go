// Package ring provides a power-of-two sample history buffer with
// branch-free mask addressing, sized for lookbacks of many thousands of
// samples per write.
package ring

import "fmt"

const maxBits = 30

// Buffer is a fixed-capacity circular sample history. Its capacity is
// always a power of two so that write and read positions wrap with a
// single bit mask.
type Buffer struct {
	buf  []float64
	mask int
	pos  int
}

// New returns a history buffer holding 1<<bits samples, zero-filled so
// that reads before the first write return silence.
func New(bits int) (*Buffer, error) {
	if bits <= 0 || bits > maxBits {
		return nil, fmt.Errorf("ring: history bits must be between 1 and %d: %d", maxBits, bits)
	}
	size := 1 << bits
	return &Buffer{
		buf:  make([]float64, size),
		mask: size - 1,
	}, nil
}

// Len returns the fixed buffer capacity.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Write stores one sample and advances the cursor.
func (b *Buffer) Write(sample float64) {
	b.buf[b.pos] = sample
	b.pos = (b.pos + 1) & b.mask
}

// Read returns the sample written lookback writes before the most recent
// write. Read(0) is the most recent sample itself. The caller must keep
// lookback within [0, Len()-1]; values outside that range wrap onto
// unrelated history rather than failing.
func (b *Buffer) Read(lookback int) float64 {
	return b.buf[(b.pos-1-lookback)&b.mask]
}

// Reset clears all history.
func (b *Buffer) Reset() {
	for i := range b.buf {
		b.buf[i] = 0
	}
	b.pos = 0
}
