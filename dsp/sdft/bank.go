package sdft

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sdft/dsp/core"
	"github.com/cwbudde/algo-sdft/dsp/ring"
	"github.com/cwbudde/algo-sdft/dsp/tuning"
	"github.com/cwbudde/algo-vecmath"
)

// MaxSmoothing is the largest accepted output smoothing factor. Process
// clamps its smoothing argument to [0, MaxSmoothing].
const MaxSmoothing = 0.25

// AllBins selects every entry of the tuning table; see WithMaxBins.
const AllBins = -1

const defaultHistoryBits = 16

type bankConfig struct {
	historyBits int
	maxBins     int
}

func defaultBankConfig() bankConfig {
	return bankConfig{
		historyBits: defaultHistoryBits,
		maxBins:     AllBins,
	}
}

// Option configures a Bank.
type Option func(*bankConfig)

// WithHistoryBits sets the sample history capacity to 1<<bits. The
// capacity must exceed every analysis window length; defaults to 16
// (65536 samples).
func WithHistoryBits(bits int) Option {
	return func(cfg *bankConfig) {
		if bits > 0 {
			cfg.historyBits = bits
		}
	}
}

// WithMaxBins caps analysis to the first n tuning entries. Pass AllBins
// (the default) to analyze every entry. Other non-positive values are
// ignored.
func WithMaxBins(n int) Option {
	return func(cfg *bankConfig) {
		if n == AllBins || n > 0 {
			cfg.maxBins = n
		}
	}
}

// Bank is a sliding-DFT analyzer: one Bin per tuning entry, all fed
// from a shared sample history ring.
//
// Process is meant to run on an audio callback thread: it takes no
// locks, performs no allocation in steady state, and touches only state
// owned by the bank. A Bank must not be shared between goroutines
// without external synchronization. Rotation coefficients and history
// capacity derive from the sample rate and tuning table at
// construction; to change either, build a new Bank.
type Bank struct {
	hist       *ring.Buffer
	bins       []Bin
	sampleRate float64

	re     []float64
	im     []float64
	mag    []float64
	raw    []float64
	levels []float64
}

// NewBank builds an analyzer from a tuning table. Output vectors follow
// table order, truncated by WithMaxBins. Construction fails if any
// window length reaches the history capacity: a lookback past the ring
// would silently alias onto newer samples.
func NewBank(tab tuning.Table, sampleRate float64, opts ...Option) (*Bank, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sdft: sample rate must be > 0: %v", sampleRate)
	}

	if err := tab.Validate(sampleRate); err != nil {
		return nil, err
	}

	cfg := defaultBankConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	active := tab
	if cfg.maxBins != AllBins && cfg.maxBins < len(tab) {
		active = tab[:cfg.maxBins]
	}

	hist, err := ring.New(cfg.historyBits)
	if err != nil {
		return nil, fmt.Errorf("sdft: history: %w", err)
	}

	bins := make([]Bin, len(active))
	for i, e := range active {
		if e.WindowLen >= hist.Len() {
			return nil, fmt.Errorf("sdft: bin %d: window length %d exceeds history capacity %d",
				i, e.WindowLen, hist.Len())
		}

		bins[i], err = makeBin(e.Frequency, sampleRate, e.WindowLen)
		if err != nil {
			return nil, fmt.Errorf("sdft: bin %d: %w", i, err)
		}
	}

	n := len(bins)

	return &Bank{
		hist:       hist,
		bins:       bins,
		sampleRate: sampleRate,
		re:         make([]float64, n),
		im:         make([]float64, n),
		mag:        make([]float64, n),
		raw:        make([]float64, n),
		levels:     make([]float64, n),
	}, nil
}

// Process consumes a block of mono samples and returns the per-bin
// levels. The block may have any length, including zero, and the length
// may vary between calls. Samples are expected mixed down and
// amplitude-normalized by the caller.
//
// smoothing in (0, MaxSmoothing] applies an exponential moving average
// across successive calls, smoothed = smoothed*(1-a) + raw*a; zero
// passes raw levels through unchanged. Values outside the range are
// clamped.
//
// The returned slice is owned by the bank and rewritten on each call.
func (b *Bank) Process(block []float64, smoothing float64) []float64 {
	for _, x := range block {
		b.hist.Write(x)
		for i := range b.bins {
			bin := &b.bins[i]
			bin.Update(x, b.hist.Read(bin.n))
		}
	}

	for i := range b.bins {
		b.re[i] = real(b.bins[i].s)
		b.im[i] = imag(b.bins[i].s)
	}
	vecmath.Magnitude(b.mag, b.re, b.im)

	for i := range b.bins {
		b.raw[i] = b.bins[i].level(b.mag[i])
	}

	a := core.Clamp(smoothing, 0, MaxSmoothing)
	if a == 0 {
		copy(b.levels, b.raw)
		return b.levels
	}

	for i := range b.levels {
		b.levels[i] = core.FlushDenormals(b.levels[i]*(1-a) + b.raw[i]*a)
	}

	return b.levels
}

// BinInfo describes one configured analyzer bin.
type BinInfo struct {
	Frequency float64 // target frequency in Hz
	Center    float64 // realized center frequency in Hz
	WindowLen int     // analysis window in samples
	Index     int     // integer bin number within the window
}

// Bins returns metadata for each configured bin, in output order.
func (b *Bank) Bins() []BinInfo {
	out := make([]BinInfo, len(b.bins))
	for i := range b.bins {
		bin := &b.bins[i]
		out[i] = BinInfo{
			Frequency: bin.target,
			Center:    bin.Center(),
			WindowLen: bin.n,
			Index:     bin.k,
		}
	}

	return out
}

// Levels returns the most recent level vector. The slice is owned by
// the bank and is rewritten by each Process call.
func (b *Bank) Levels() []float64 {
	return b.levels
}

// NumBins returns the number of active bins.
func (b *Bank) NumBins() int { return len(b.bins) }

// SampleRate returns the sample rate the bank was built for.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// HistoryLen returns the sample history capacity.
func (b *Bank) HistoryLen() int { return b.hist.Len() }

// Reset clears the sample history, every bin accumulator, and the
// smoothed output state.
func (b *Bank) Reset() {
	b.hist.Reset()
	for i := range b.bins {
		b.bins[i].Reset()
	}

	core.Zero(b.raw)
	core.Zero(b.levels)
}
