// Package testutil provides deterministic signals and tolerance asserts
// shared by the analysis package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// NoteTone generates a tone at the given fundamental with harmonics
// rolling off as 1/h, a crude struck-string spectrum for selectivity
// tests. Harmonics at or above Nyquist are dropped.
func NoteTone(freqHz, sampleRate, amplitude float64, harmonics, length int) []float64 {
	out := make([]float64, length)
	for h := 1; h <= harmonics; h++ {
		f := freqHz * float64(h)
		if f >= sampleRate/2 {
			break
		}
		step := 2 * math.Pi * f / sampleRate
		gain := amplitude / float64(h)
		for i := range out {
			out[i] += gain * math.Sin(step*float64(i))
		}
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}
