package stream

import (
	"testing"
	"time"

	"github.com/cwbudde/algo-sdft/internal/testutil"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1700000000, 0)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func tryRecv(t *testing.T, ch <-chan []float64) ([]float64, bool) {
	t.Helper()
	select {
	case v := <-ch:
		return v, true
	default:
		return nil, false
	}
}

func TestPublisherFirstOfferPublishes(t *testing.T) {
	clk := newFakeClock()
	p := NewPublisher(100*time.Millisecond, WithClock(clk.now))

	levels := []float64{0.1, 0.9, 0.3}
	if !p.Offer(levels) {
		t.Fatal("first Offer should publish")
	}

	got, ok := tryRecv(t, p.Updates())
	if !ok {
		t.Fatal("expected an update on the channel")
	}
	testutil.RequireSliceNearlyEqual(t, got, levels, 0)
	testutil.RequireSliceNearlyEqual(t, p.Latest(), levels, 0)
}

func TestPublisherThrottles(t *testing.T) {
	clk := newFakeClock()
	p := NewPublisher(100*time.Millisecond, WithClock(clk.now))

	first := []float64{1}
	second := []float64{2}
	third := []float64{3}

	if !p.Offer(first) {
		t.Fatal("first Offer should publish")
	}

	clk.advance(50 * time.Millisecond)
	if p.Offer(second) {
		t.Fatal("Offer inside the interval should not publish")
	}

	// The snapshot stays at the last published vector.
	testutil.RequireSliceNearlyEqual(t, p.Latest(), first, 0)

	clk.advance(50 * time.Millisecond)
	if !p.Offer(third) {
		t.Fatal("Offer at the interval boundary should publish")
	}
	testutil.RequireSliceNearlyEqual(t, p.Latest(), third, 0)
}

func TestPublisherLatestWins(t *testing.T) {
	clk := newFakeClock()
	p := NewPublisher(10*time.Millisecond, WithClock(clk.now))

	p.Offer([]float64{1})
	clk.advance(10 * time.Millisecond)
	p.Offer([]float64{2})

	// No consumer drained the channel between publishes: only the
	// newest vector survives.
	got, ok := tryRecv(t, p.Updates())
	if !ok {
		t.Fatal("expected an update on the channel")
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{2}, 0)

	if _, ok := tryRecv(t, p.Updates()); ok {
		t.Fatal("expected no second update")
	}
}

func TestPublisherCopies(t *testing.T) {
	clk := newFakeClock()
	p := NewPublisher(0, WithClock(clk.now))

	levels := []float64{0.5, 0.25}
	p.Offer(levels)

	// The caller keeps ownership of its slice; mutating it must not
	// reach the published snapshot.
	levels[0] = -1

	testutil.RequireSliceNearlyEqual(t, p.Latest(), []float64{0.5, 0.25}, 0)

	got, ok := tryRecv(t, p.Updates())
	if !ok {
		t.Fatal("expected an update on the channel")
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.5, 0.25}, 0)
}

func TestPublisherZeroIntervalPublishesEveryOffer(t *testing.T) {
	clk := newFakeClock()
	p := NewPublisher(0, WithClock(clk.now))

	for i := 0; i < 3; i++ {
		if !p.Offer([]float64{float64(i)}) {
			t.Fatalf("Offer %d should publish with zero interval", i)
		}
	}
	testutil.RequireSliceNearlyEqual(t, p.Latest(), []float64{2}, 0)
}

func TestPublisherLatestNilBeforePublish(t *testing.T) {
	p := NewPublisher(time.Second)
	if p.Latest() != nil {
		t.Fatalf("Latest before any publish = %v, want nil", p.Latest())
	}
	if p.Interval() != time.Second {
		t.Fatalf("Interval = %v, want 1s", p.Interval())
	}
}
