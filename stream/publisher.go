package stream

import (
	"sync"
	"time"
)

// Publisher hands the latest level vector from the processing thread to
// a consumer at a capped rate. Offer never blocks and never waits for
// the consumer: when the consumer lags, older vectors are dropped and
// only the newest survives.
type Publisher struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time

	mu      sync.RWMutex
	snap    []float64
	updates chan []float64
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithClock injects the time source used for throttling. Nil is ignored.
func WithClock(now func() time.Time) PublisherOption {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPublisher creates a publisher that publishes at most once per
// interval. A non-positive interval publishes on every Offer.
func NewPublisher(interval time.Duration, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		interval: interval,
		now:      time.Now,
		updates:  make(chan []float64, 1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Offer submits the current level vector. At most once per interval it
// copies the vector into a fresh snapshot, stores it for Latest, and
// performs a non-blocking latest-wins send on the update channel.
// Returns whether a publish happened. Calls between publishes cost one
// clock read.
//
// Offer is meant to be called from a single processing goroutine; the
// copy allocation happens at the publish cadence, not per block.
func (p *Publisher) Offer(levels []float64) bool {
	now := p.now()
	if !p.last.IsZero() && now.Sub(p.last) < p.interval {
		return false
	}
	p.last = now

	out := make([]float64, len(levels))
	copy(out, levels)

	p.mu.Lock()
	p.snap = out
	p.mu.Unlock()

	select {
	case p.updates <- out:
		return true
	default:
	}

	// Channel full: displace the stale vector. A consumer may race the
	// drain, in which case the channel drained itself and the second
	// send wins.
	select {
	case <-p.updates:
	default:
	}
	select {
	case p.updates <- out:
	default:
	}
	return true
}

// Updates returns the channel carrying published level vectors. Each
// received slice is owned by the receiver.
func (p *Publisher) Updates() <-chan []float64 {
	return p.updates
}

// Latest returns the most recently published snapshot, or nil before
// the first publish. The returned slice is never rewritten; treat it as
// read-only shared by all callers.
func (p *Publisher) Latest() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Interval returns the configured minimum time between publishes.
func (p *Publisher) Interval() time.Duration {
	return p.interval
}
