package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-sdft/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=44100 blockSize=256
}

func ExampleEnsureLen() {
	buf := make([]float64, 2, 4)
	buf[0], buf[1] = 1, 2
	buf = core.EnsureLen(buf, 4)
	fmt.Println(buf)

	core.Zero(buf[:2])
	fmt.Println(buf)

	// Output:
	// [1 2 0 0]
	// [0 0 0 0]
}
