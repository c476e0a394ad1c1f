package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-sdft/dsp/sdft"
	"github.com/cwbudde/algo-sdft/dsp/signal"
	"github.com/cwbudde/algo-sdft/measure/notes"
	"github.com/cwbudde/algo-sdft/stream"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.wav>",
	Short: "Measure per-note levels of a WAV recording",
	Long: `Analyze feeds the recording through the incremental sliding-DFT bank
block by block, the way a live audio callback would, and prints the
strongest notes at the end of the file.

With --batch the incremental engine is bypassed and each note is
measured with one exact DFT over its trailing analysis window, which is
the reference the incremental path is validated against.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("block", 1024, "samples per processing block")
	analyzeCmd.Flags().Float64("smoothing", 0, "output smoothing factor in [0, 0.25]")
	analyzeCmd.Flags().Bool("batch", false, "use one exact DFT per window instead of the incremental bank")
	analyzeCmd.Flags().Int("top", 5, "number of strongest notes to print")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in, err := openWAVInput(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	sampleRate := float64(in.rate)

	tab, err := buildTable(sampleRate)
	if err != nil {
		return err
	}

	block := viper.GetInt("block")
	if block <= 0 {
		return fmt.Errorf("block size must be > 0: %d", block)
	}

	var levels []float64

	if viper.GetBool("batch") {
		mono, err := in.readMono(block)
		if err != nil {
			return err
		}

		// Recordings often carry a DC offset that would register on
		// the lowest keys.
		mono, err = signal.RemoveDC(mono)
		if err != nil {
			return err
		}

		levels, err = notes.AnalyzeSignal(mono, tab, sampleRate)
		if err != nil {
			return err
		}
	} else {
		bank, err := sdft.NewBank(tab, sampleRate,
			sdft.WithMaxBins(viper.GetInt("max-bins")))
		if err != nil {
			return err
		}

		proc, err := stream.NewProcessor(bank,
			stream.WithSmoothing(viper.GetFloat64("smoothing")))
		if err != nil {
			return err
		}

		err = in.forEachBlock(block, func(channels [][]float64) error {
			return proc.OnBlock(channels...)
		})
		if err != nil {
			return err
		}

		if viper.GetBool("verbose") {
			m := proc.Meter()
			fmt.Fprintf(os.Stderr, "input: last-block rms %.4f, peak %.4f\n",
				m.RMS(), m.Peak())
		}

		levels = proc.Levels()
	}

	printTopLevels(os.Stdout, tab, levels, viper.GetInt("top"))

	return nil
}
