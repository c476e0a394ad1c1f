// Package sdft provides incremental single-bin spectral analysis over a
// fixed set of target frequencies.
//
// Each tracked frequency is a [Bin]: a sliding DFT updated in O(1) per
// sample, paired with an incrementally maintained window power so its
// output is a loudness-independent presence ratio rather than an
// absolute magnitude. A [Bank] drives one Bin per tuning entry from a
// shared sample history and returns one level per bin and block,
// optionally smoothed across calls.
//
// Because every bin carries its own window length, a bank built from a
// constant-Q table (see the tuning package) resolves each musical
// interval equally well, which a single fixed-size transform cannot.
package sdft
