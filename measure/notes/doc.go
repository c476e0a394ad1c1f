// Package notes measures per-note spectral levels from a recorded
// signal, the offline counterpart to the incremental analyzer in
// dsp/sdft.
//
// AnalyzeSignal evaluates each tuning entry with one exact-size DFT
// over the trailing window the entry asks for, normalized identically
// to the incremental analyzer, so the two can be cross-checked against
// the same signal. Snapshot trades that exactness for speed: a single
// power-of-two transform of the whole signal, read off at each note
// frequency by interpolating between neighboring transform bins.
package notes
