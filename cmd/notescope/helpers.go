package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-sdft/dsp/core"
	"github.com/cwbudde/algo-sdft/dsp/tuning"
	"github.com/cwbudde/algo-sdft/stats/levels"
)

// wavInput holds an open WAV file and its format.
type wavInput struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

func openWAVInput(path string) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()

	return &wavInput{
		file:     f,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: int(decoder.BitDepth),
		format:   format,
	}, nil
}

func (w *wavInput) Close() error {
	return w.file.Close()
}

// forEachBlock reads the file in blocks of frames frames, deinterleaves
// into per-channel float64 buffers, and hands them to fn.
func (w *wavInput) forEachBlock(frames int, fn func(channels [][]float64) error) error {
	intBuf := &audio.IntBuffer{
		Data:   make([]int, frames*w.channels),
		Format: w.format,
	}

	chans := make([][]float64, w.channels)
	for ch := range chans {
		chans[ch] = make([]float64, frames)
	}

	invMax := 1 / maxSampleValue(w.bitDepth)

	for {
		n, err := w.decoder.PCMBuffer(intBuf)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read audio data: %w", err)
		}

		frameCount := n / w.channels
		if frameCount == 0 {
			return nil
		}

		block := chans
		if frameCount < frames {
			block = make([][]float64, w.channels)
			for ch := range block {
				block[ch] = chans[ch][:frameCount]
			}
		}

		deinterleave(intBuf.Data, block, w.channels, frameCount, invMax)

		if err := fn(block); err != nil {
			return err
		}
	}
}

// readMono reads the whole file and mixes it down to one mono signal.
func (w *wavInput) readMono(frames int) ([]float64, error) {
	var mono []float64

	err := w.forEachBlock(frames, func(channels [][]float64) error {
		n := len(channels[0])
		scale := 1 / float64(len(channels))
		for i := 0; i < n; i++ {
			var sum float64
			for _, ch := range channels {
				sum += ch[i]
			}
			mono = append(mono, sum*scale)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mono, nil
}

// deinterleave splits interleaved integer PCM into per-channel float64
// buffers scaled to [-1, 1].
func deinterleave(data []int, dst [][]float64, channels, frames int, invMax float64) {
	for ch := 0; ch < channels; ch++ {
		buf := dst[ch]
		for i := 0; i < frames; i++ {
			buf[i] = float64(data[i*channels+ch]) * invMax
		}
	}
}

func maxSampleValue(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 128
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}

// buildTable resolves the tuning table for a file's sample rate from
// the configured source: a YAML file when --tuning is set, the built-in
// equal-temperament piano otherwise.
func buildTable(sampleRate float64) (tuning.Table, error) {
	if path := viper.GetString("tuning"); path != "" {
		tab, err := tuning.LoadYAML(path)
		if err != nil {
			return nil, err
		}

		if err := tab.Validate(sampleRate); err != nil {
			return nil, err
		}

		return tab, nil
	}

	return tuning.Piano(sampleRate,
		tuning.WithConcertPitch(viper.GetFloat64("concert-pitch")),
		tuning.WithCycles(viper.GetFloat64("cycles")),
	)
}

// pianoNames reports whether the table came from the built-in piano,
// in which case entries map one-to-one onto key names.
func pianoNames(tab tuning.Table) bool {
	return viper.GetString("tuning") == "" && len(tab) == tuning.LastKey
}

func entryName(tab tuning.Table, i int) string {
	if pianoNames(tab) {
		return tuning.KeyName(tuning.FirstKey + i)
	}

	return fmt.Sprintf("#%d", i)
}

// printTopLevels writes the k strongest entries as a table.
func printTopLevels(out io.Writer, tab tuning.Table, lv []float64, k int) {
	s := levels.Summary(lv)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NOTE\tFREQ\tLEVEL\tdB")

	for _, i := range levels.TopK(lv, k) {
		fmt.Fprintf(w, "%s\t%.2f\t%.4f\t%.1f\n",
			entryName(tab, i), tab[i].Frequency, lv[i], dbOrFloor(lv[i]))
	}

	w.Flush()
	fmt.Fprintf(out, "\n%d bins, mean %.4f, rms %.4f, peak %s at %.4f\n",
		s.Bins, s.Mean, s.RMS, entryName(tab, s.MaxBin), s.Max)
}

func dbOrFloor(level float64) float64 {
	const floor = -120.0

	db := core.LinearToDB(level)
	if db < floor {
		return floor
	}

	return db
}
