package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-sdft/dsp/signal"
	"github.com/cwbudde/algo-sdft/measure/notes"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file.wav>",
	Short: "Whole-file spectral view at the tuned note frequencies",
	Long: `Snapshot runs a single power-of-two FFT over the entire recording and
reads off the level at each note frequency. It is coarser than analyze
but independent of per-note window lengths, which makes it a quick
first look at what a file contains.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().Int("block", 8192, "samples per read while loading the file")
	snapshotCmd.Flags().Int("top", 5, "number of strongest notes to print")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
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

	mono, err := in.readMono(viper.GetInt("block"))
	if err != nil {
		return err
	}

	mono, err = signal.RemoveDC(mono)
	if err != nil {
		return err
	}

	levels, err := notes.Snapshot(mono, tab, sampleRate)
	if err != nil {
		return err
	}

	printTopLevels(os.Stdout, tab, levels, viper.GetInt("top"))

	return nil
}
