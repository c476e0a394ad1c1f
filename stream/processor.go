package stream

import (
	"fmt"

	"github.com/cwbudde/algo-sdft/dsp/sdft"
)

// Processor is the audio-callback entry point. Per block it mixes the
// incoming channels to mono, meters the input, runs the analyzer bank,
// and offers the level vector to an optional publisher.
//
// OnBlock is single-threaded by contract: it must be driven by one
// goroutine (the audio callback), takes no locks on the processing
// path, and does not allocate once the mono scratch has grown to the
// callback block size. Consumers read levels through the publisher, not
// by touching the processor concurrently.
type Processor struct {
	mixer *Mixer
	bank  *sdft.Bank
	meter *Meter
	pub   *Publisher

	smoothing float64
	mono      []float64
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithSmoothing sets the level smoothing factor handed to the bank on
// every block; the bank clamps it to its accepted range.
func WithSmoothing(a float64) ProcessorOption {
	return func(p *Processor) {
		p.smoothing = a
	}
}

// WithPublisher attaches a publisher that is offered the level vector
// after every processed block.
func WithPublisher(pub *Publisher) ProcessorOption {
	return func(p *Processor) {
		p.pub = pub
	}
}

// WithMixer replaces the default mixer, e.g. with one presized for the
// callback block size.
func WithMixer(m *Mixer) ProcessorOption {
	return func(p *Processor) {
		if m != nil {
			p.mixer = m
		}
	}
}

// NewProcessor wires a processing pipeline around an analyzer bank.
func NewProcessor(bank *sdft.Bank, opts ...ProcessorOption) (*Processor, error) {
	if bank == nil {
		return nil, fmt.Errorf("stream: processor needs a bank")
	}

	p := &Processor{
		mixer: NewMixer(),
		bank:  bank,
		meter: NewMeter(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// OnBlock consumes one multi-channel sample block.
func (p *Processor) OnBlock(channels ...[]float64) error {
	mono, err := p.mixer.Mix(p.mono, channels...)
	if err != nil {
		return err
	}
	p.mono = mono

	p.meter.Observe(mono)

	levels := p.bank.Process(mono, p.smoothing)
	if p.pub != nil {
		p.pub.Offer(levels)
	}
	return nil
}

// OnBlockFloat32 consumes one multi-channel block of single-precision
// callback buffers.
func (p *Processor) OnBlockFloat32(channels ...[]float32) error {
	mono, err := p.mixer.MixFloat32(p.mono, channels...)
	if err != nil {
		return err
	}
	p.mono = mono

	p.meter.Observe(mono)

	levels := p.bank.Process(mono, p.smoothing)
	if p.pub != nil {
		p.pub.Offer(levels)
	}
	return nil
}

// Levels returns the bank-owned level vector from the last block.
func (p *Processor) Levels() []float64 {
	return p.bank.Levels()
}

// Bank returns the analyzer driven by this processor.
func (p *Processor) Bank() *sdft.Bank {
	return p.bank
}

// Meter returns the input meter.
func (p *Processor) Meter() *Meter {
	return p.meter
}

// Smoothing returns the configured smoothing factor.
func (p *Processor) Smoothing() float64 {
	return p.smoothing
}
