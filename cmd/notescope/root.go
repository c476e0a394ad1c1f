package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "notescope",
	Short: "Per-note spectral analysis of WAV recordings",
	Long: `notescope measures how much spectral energy a recording carries at
each frequency of a musical tuning table, using a bank of sliding-DFT
trackers with one constant-Q analysis window per note.

Levels are loudness-independent presence ratios: a clean tone at a
note's frequency reads near 1.0 whatever its amplitude, and unrelated
content reads near 0.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, viper.GetViper())
	},
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is ./notescope.yaml)")
	rootCmd.PersistentFlags().String("tuning", "",
		"tuning table YAML file (default is the 88-key piano)")
	rootCmd.PersistentFlags().Float64("concert-pitch", 440,
		"A4 reference frequency in Hz for the built-in piano tuning")
	rootCmd.PersistentFlags().Float64("cycles", 16,
		"target-frequency cycles per analysis window (constant-Q resolution)")
	rootCmd.PersistentFlags().Int("max-bins", -1,
		"analyze only the first N tuning entries (-1 means all)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"verbose output")
}

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName("notescope")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("NOTESCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindFlags lets config-file and environment values fill in any flag
// the user did not set on the command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
				lastErr = err
			}
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}
	})

	return lastErr
}
