package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-sdft/dsp/core"
)

// Generator creates deterministic calibration signals from a shared
// configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// SetSeed sets the seed used by subsequent noise generation.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
}

// Seed returns the current noise seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// Multisine generates a sum of sine waves, one per frequency, with the
// component amplitudes summing to the given amplitude. Useful as a
// chord-like input with a known spectral line at every frequency.
func (g *Generator) Multisine(freqs []float64, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("multisine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("multisine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	if len(freqs) == 0 {
		return nil, fmt.Errorf("multisine needs at least one frequency")
	}
	out := make([]float64, samples)
	comp := amplitude / float64(len(freqs))
	for _, f := range freqs {
		step := 2 * math.Pi * f / g.cfg.SampleRate
		for i := range out {
			out[i] += comp * math.Sin(step*float64(i))
		}
	}
	return out, nil
}

// NoteTone generates a tone at the given fundamental with harmonics
// rolling off as 1/h, a crude struck-string spectrum. Harmonics at or
// above Nyquist are dropped. The result is peak-normalized to amplitude.
func (g *Generator) NoteTone(freqHz, amplitude float64, harmonics, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("note tone samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("note tone sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	if harmonics < 1 {
		return nil, fmt.Errorf("note tone harmonics must be >= 1: %d", harmonics)
	}
	nyquist := g.cfg.SampleRate / 2
	if freqHz <= 0 || freqHz >= nyquist {
		return nil, fmt.Errorf("note tone frequency must be in (0, %f): %f", nyquist, freqHz)
	}
	out := make([]float64, samples)
	for h := 1; h <= harmonics; h++ {
		f := freqHz * float64(h)
		if f >= nyquist {
			break
		}
		step := 2 * math.Pi * f / g.cfg.SampleRate
		gain := 1 / float64(h)
		for i := range out {
			out[i] += gain * math.Sin(step*float64(i))
		}
	}
	return Normalize(out, amplitude)
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}

// RemoveDC subtracts the mean from data and returns a new slice. Constant
// offset otherwise leaks into the lowest analysis bins.
func RemoveDC(data []float64) ([]float64, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("remove dc input must not be empty")
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out, nil
}
