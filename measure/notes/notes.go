package notes

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/fft"

	"github.com/cwbudde/algo-sdft/dsp/tuning"
)

// minMeanPower matches the near-silence floor of the incremental
// analyzer in dsp/sdft so batch and incremental levels share one
// definition of "silent".
const minMeanPower = 1e-12

// AnalyzeSignal measures the level of every tuning entry over the
// trailing window the entry asks for. For each distinct window length N
// among the entries it runs one exact N-point DFT of the last N samples
// and reads each entry's bin magnitude and window power from it; the
// level is normalized exactly like the incremental analyzer, so on a
// stationary signal the two agree to numeric tolerance.
//
// Entries whose window is longer than the signal report level 0.
// Levels follow table order.
func AnalyzeSignal(signal []float64, tab tuning.Table, sampleRate float64) ([]float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("notes: sample rate must be > 0: %v", sampleRate)
	}

	if err := tab.Validate(sampleRate); err != nil {
		return nil, err
	}

	type window struct {
		spectrum []complex128
		power    float64
	}

	windows := make(map[int]window)

	levels := make([]float64, len(tab))
	for i, e := range tab {
		n := e.WindowLen
		if n > len(signal) {
			continue
		}

		w, ok := windows[n]
		if !ok {
			tail := signal[len(signal)-n:]
			w = window{
				spectrum: fft.FFTReal(tail),
				power:    sumSquares(tail),
			}
			windows[n] = w
		}

		k := int(math.Round(e.Frequency * float64(n) / sampleRate))
		levels[i] = normalizeLevel(cmplx.Abs(w.spectrum[k]), w.power, n)
	}

	return levels, nil
}

// Snapshot reads every tuning entry's level off a single power-of-two
// transform of the whole signal. Each entry is read at the transform
// bin nearest its frequency, with the window's known rolloff at that
// sub-bin offset divided out. It is the quick whole-file view: leakage
// between tones and the shared transform length make it coarser than
// AnalyzeSignal, but it costs one FFT no matter how many entries the
// table has.
//
// Levels are normalized against the signal RMS so a full-scale pure
// sine at an entry's frequency reads near 1.0. A near-silent signal
// reports all zeros.
func Snapshot(signal []float64, tab tuning.Table, sampleRate float64) ([]float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("notes: sample rate must be > 0: %v", sampleRate)
	}

	if err := tab.Validate(sampleRate); err != nil {
		return nil, err
	}

	if len(signal) == 0 {
		return nil, fmt.Errorf("notes: snapshot needs a non-empty signal")
	}

	fftSize := nextPowerOf2(len(signal))

	in := make([]complex128, fftSize)
	for i, v := range signal {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("notes: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("notes: fft: %w", err)
	}

	binCount := fftSize/2 + 1
	re := make([]float64, binCount)
	im := make([]float64, binCount)
	for i := 0; i < binCount; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, binCount)
	vecmath.Magnitude(mag, re, im)

	levels := make([]float64, len(tab))

	power := sumSquares(signal)
	if power/float64(len(signal)) < minMeanPower {
		return levels, nil
	}

	rms := math.Sqrt(power / float64(len(signal)))
	scale := 1 / (0.5 * float64(len(signal)) * rms * math.Sqrt2)

	// A target between transform bins is read off the flank of the
	// signal's main lobe, not its peak. Dividing by the lobe shape at
	// the sub-bin offset restores the on-target amplitude. The offset
	// never exceeds half a bin scaled by the zero-padding ratio, so
	// the divisor stays above 2/pi.
	binHz := sampleRate / float64(fftSize)
	padRatio := float64(len(signal)) / float64(fftSize)
	for i, e := range tab {
		pos := e.Frequency / binHz
		k := int(math.Round(pos))
		if k >= binCount {
			k = binCount - 1
		}

		u := (float64(k) - pos) * padRatio
		levels[i] = mag[k] * scale / sincPi(u)
	}

	return levels, nil
}

// normalizeLevel mirrors the incremental analyzer: magnitude over
// sqrt(N*P/2), zero when the window is effectively silent.
func normalizeLevel(magnitude, power float64, windowLen int) float64 {
	if power < minMeanPower*float64(windowLen) {
		return 0
	}

	return magnitude / math.Sqrt(0.5*float64(windowLen)*power)
}

// sincPi is sin(pi*x)/(pi*x), continuously extended to 1 at x = 0.
func sincPi(x float64) float64 {
	if x == 0 {
		return 1
	}

	px := math.Pi * x

	return math.Sin(px) / px
}

func sumSquares(data []float64) float64 {
	var sum float64
	for _, v := range data {
		sum += v * v
	}

	return sum
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
