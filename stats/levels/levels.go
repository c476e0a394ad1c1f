// Package levels summarizes analyzer level vectors for display and
// batch consumers.
package levels

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-sdft/dsp/core"
)

// Stats holds descriptive statistics over one level vector.
type Stats struct {
	Bins   int
	Min    float64
	MinBin int
	Max    float64
	MaxBin int
	Max_dB float64
	Mean   float64
	RMS    float64
}

// Summary computes statistics over one level vector. Empty input yields
// the zero Stats with Max_dB at -Inf.
func Summary(levels []float64) Stats {
	if len(levels) == 0 {
		return Stats{Max_dB: math.Inf(-1)}
	}

	s := Stats{
		Bins:   len(levels),
		Min:    floats.Min(levels),
		MinBin: floats.MinIdx(levels),
		Max:    floats.Max(levels),
		MaxBin: floats.MaxIdx(levels),
		Mean:   stat.Mean(levels, nil),
		RMS:    math.Sqrt(floats.Dot(levels, levels) / float64(len(levels))),
	}
	s.Max_dB = core.LinearToDB(s.Max)
	return s
}

// TopK returns the indices of the k strongest bins in descending level
// order. Ties keep ascending bin order, so the result is deterministic.
// k above the bin count returns every bin; k <= 0 returns nil.
func TopK(levels []float64, k int) []int {
	if k <= 0 || len(levels) == 0 {
		return nil
	}

	idx := make([]int, len(levels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return levels[idx[a]] > levels[idx[b]]
	})

	if k > len(idx) {
		k = len(idx)
	}
	return idx[:k]
}

// Active returns the indices of bins whose level is at or above
// threshold, in ascending bin order.
func Active(levels []float64, threshold float64) []int {
	var out []int
	for i, v := range levels {
		if v >= threshold {
			out = append(out, i)
		}
	}
	return out
}
