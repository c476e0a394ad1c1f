// Package tuning describes which frequencies a spectral analyzer tracks
// and how long each analysis window is, in samples.
//
// A Table is an ordered list of (frequency, window length) entries.
// Analyzer output vectors follow table order. Tables can be built for
// the 88-key piano range in equal temperament, assembled from explicit
// pairs, or loaded from YAML.
package tuning

import (
	"fmt"
	"math"
)

// Piano key numbering: key 1 is A0 (MIDI 21), key 49 is A4, key 88 is C8.
const (
	FirstKey    = 1
	LastKey     = 88
	concertAKey = 49
	midiOffset  = 20
)

const (
	defaultConcertA  = 440.0
	defaultCycles    = 16.0
	defaultMinWindow = 16
	defaultMaxWindow = 32768
)

// Entry pairs a target frequency with the analysis window length used
// to resolve it.
type Entry struct {
	Frequency float64 `yaml:"frequency"`
	WindowLen int     `yaml:"window"`
}

// Table is an ordered set of analysis targets. Order is significant:
// level vectors produced from a table follow it entry by entry.
type Table []Entry

type config struct {
	concertA  float64
	cycles    float64
	keyLo     int
	keyHi     int
	minWindow int
	maxWindow int
}

func defaultConfig() config {
	return config{
		concertA:  defaultConcertA,
		cycles:    defaultCycles,
		keyLo:     FirstKey,
		keyHi:     LastKey,
		minWindow: defaultMinWindow,
		maxWindow: defaultMaxWindow,
	}
}

// Option configures Piano table construction.
type Option func(*config)

// WithConcertPitch sets the A4 reference frequency. Defaults to 440 Hz.
func WithConcertPitch(hz float64) Option {
	return func(cfg *config) {
		if hz > 0 && !math.IsInf(hz, 1) {
			cfg.concertA = hz
		}
	}
}

// WithCycles sets how many cycles of a key's fundamental one analysis
// window spans. More cycles sharpen frequency selectivity and slow the
// response. Defaults to 16.
func WithCycles(cycles float64) Option {
	return func(cfg *config) {
		if cycles > 0 && !math.IsInf(cycles, 1) {
			cfg.cycles = cycles
		}
	}
}

// WithKeyRange restricts the table to piano keys [lo, hi].
func WithKeyRange(lo, hi int) Option {
	return func(cfg *config) {
		if lo >= FirstKey && hi <= LastKey && lo <= hi {
			cfg.keyLo = lo
			cfg.keyHi = hi
		}
	}
}

// WithWindowLimits clamps computed window lengths to [min, max] samples.
func WithWindowLimits(min, max int) Option {
	return func(cfg *config) {
		if min > 0 && max >= min {
			cfg.minWindow = min
			cfg.maxWindow = max
		}
	}
}

// Piano builds an equal-temperament table covering the piano keyboard.
//
// Each key's window length is sized constant-Q: the window spans a fixed
// number of cycles of the key's fundamental, so low keys get long windows
// and high keys short ones. Keys at or above Nyquist are skipped.
func Piano(sampleRate float64, opts ...Option) (Table, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("tuning: sample rate must be > 0: %v", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	nyquist := sampleRate / 2
	tab := make(Table, 0, cfg.keyHi-cfg.keyLo+1)
	for key := cfg.keyLo; key <= cfg.keyHi; key++ {
		f := KeyFrequency(key, cfg.concertA)
		if f >= nyquist {
			continue
		}

		n := int(math.Round(cfg.cycles * sampleRate / f))
		if n < cfg.minWindow {
			n = cfg.minWindow
		}
		if n > cfg.maxWindow {
			n = cfg.maxWindow
		}

		tab = append(tab, Entry{Frequency: f, WindowLen: n})
	}

	if len(tab) == 0 {
		return nil, fmt.Errorf("tuning: no keys below nyquist at sample rate %v", sampleRate)
	}

	return tab, nil
}

// FromPairs builds a table from parallel frequency and window slices.
func FromPairs(freqs []float64, windows []int) (Table, error) {
	if len(freqs) != len(windows) {
		return nil, fmt.Errorf("tuning: %d frequencies but %d windows", len(freqs), len(windows))
	}
	if len(freqs) == 0 {
		return nil, fmt.Errorf("tuning: empty table")
	}

	tab := make(Table, len(freqs))
	for i := range freqs {
		tab[i] = Entry{Frequency: freqs[i], WindowLen: windows[i]}
	}

	return tab, nil
}

// Validate checks the table against a sample rate: every frequency must
// be finite, positive, and below Nyquist, and every window positive.
func (t Table) Validate(sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("tuning: sample rate must be > 0: %v", sampleRate)
	}
	if len(t) == 0 {
		return fmt.Errorf("tuning: empty table")
	}

	nyquist := sampleRate / 2
	for i, e := range t {
		if math.IsNaN(e.Frequency) || math.IsInf(e.Frequency, 0) {
			return fmt.Errorf("tuning: entry %d: frequency is not finite", i)
		}
		if e.Frequency <= 0 || e.Frequency >= nyquist {
			return fmt.Errorf("tuning: entry %d: frequency must be in (0, %v): %v", i, nyquist, e.Frequency)
		}
		if e.WindowLen <= 0 {
			return fmt.Errorf("tuning: entry %d: window length must be > 0: %d", i, e.WindowLen)
		}
	}

	return nil
}

// MaxWindow returns the longest window length in the table, or 0 for an
// empty table.
func (t Table) MaxWindow() int {
	max := 0
	for _, e := range t {
		if e.WindowLen > max {
			max = e.WindowLen
		}
	}
	return max
}

// KeyFrequency returns the equal-temperament frequency of a piano key
// given the A4 reference frequency.
func KeyFrequency(key int, concertA float64) float64 {
	return concertA * math.Pow(2, float64(key-concertAKey)/12)
}

// NearestKey returns the piano key closest to freq under the given A4
// reference, clamped to [FirstKey, LastKey].
func NearestKey(freq, concertA float64) int {
	if freq <= 0 || concertA <= 0 {
		return FirstKey
	}

	key := concertAKey + int(math.Round(12*math.Log2(freq/concertA)))
	if key < FirstKey {
		return FirstKey
	}
	if key > LastKey {
		return LastKey
	}
	return key
}

// MIDINote returns the MIDI note number of a piano key (A0 is 21).
func MIDINote(key int) int {
	return key + midiOffset
}

var noteNames = [12]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

// KeyName returns the scientific pitch name of a piano key, such as
// "A0", "C#4" or "C8". Out-of-range keys yield an empty string.
func KeyName(key int) string {
	if key < FirstKey || key > LastKey {
		return ""
	}

	semis := key - 1
	octave := (semis + 9) / 12
	return fmt.Sprintf("%s%d", noteNames[semis%12], octave)
}

// Cents returns the interval from ref to freq in cents. Positive means
// freq is sharp of ref.
func Cents(freq, ref float64) float64 {
	if freq <= 0 || ref <= 0 {
		return 0
	}
	return 1200 * math.Log2(freq/ref)
}
