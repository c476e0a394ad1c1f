package tuning_test

import (
	"fmt"

	"github.com/cwbudde/algo-sdft/dsp/tuning"
)

func ExamplePiano() {
	tab, err := tuning.Piano(48000, tuning.WithKeyRange(49, 52))
	if err != nil {
		panic(err)
	}

	for _, e := range tab {
		key := tuning.NearestKey(e.Frequency, 440)
		fmt.Printf("%-3s %8.2f Hz window=%d\n", tuning.KeyName(key), e.Frequency, e.WindowLen)
	}

	// Output:
	// A4    440.00 Hz window=1745
	// A#4   466.16 Hz window=1647
	// B4    493.88 Hz window=1555
	// C5    523.25 Hz window=1468
}
