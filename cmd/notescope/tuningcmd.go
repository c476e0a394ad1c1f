package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-sdft/dsp/sdft"
	"github.com/cwbudde/algo-sdft/dsp/tuning"
)

var tuningCmd = &cobra.Command{
	Use:   "tuning",
	Short: "Print or export the configured tuning table",
	Long: `Tuning prints every entry of the configured table together with the
analyzer's view of it: the realized center frequency after rounding to
a whole number of cycles per window, and the rounding error in cents.`,
	Args: cobra.NoArgs,
	RunE: runTuning,
}

func init() {
	tuningCmd.Flags().Float64("rate", 48000, "sample rate the table is resolved for")
	tuningCmd.Flags().String("write", "", "write the table to a YAML file instead of printing")
	rootCmd.AddCommand(tuningCmd)
}

func runTuning(cmd *cobra.Command, args []string) error {
	sampleRate := viper.GetFloat64("rate")

	tab, err := buildTable(sampleRate)
	if err != nil {
		return err
	}

	if path := viper.GetString("write"); path != "" {
		if err := tab.SaveYAML(path); err != nil {
			return err
		}

		fmt.Printf("wrote %d entries to %s\n", len(tab), path)

		return nil
	}

	bank, err := sdft.NewBank(tab, sampleRate)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "NOTE\tTARGET\tWINDOW\tCENTER\tCENTS\t")

	for i, info := range bank.Bins() {
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%.2f\t%+.1f\t\n",
			entryName(tab, i), info.Frequency, info.WindowLen,
			info.Center, tuning.Cents(info.Center, info.Frequency))
	}

	return w.Flush()
}
