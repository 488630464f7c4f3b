package parking

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// slowEvents delays selected waits, holding a counted waiter between joining
// the count and taking its release.
type slowEvents struct {
	keyedEvents
	calls *atomic.Int64
	delay func(call int64) time.Duration
}

func (x slowEvents) wait(key uintptr, timeout time.Duration) (bool, error) {
	if d := x.delay(x.calls.Add(1)); d > 0 {
		time.Sleep(d)
	}
	return x.keyedEvents.wait(key, timeout)
}

func countingWaiters(w *Word) uintptr { return countingCount.get(w.load()) }

func TestCountingBackend_releaseStaysWithItsRound(t *testing.T) {
	defer checkNumGoroutines(time.Second * 5)(t)
	b := countingBackend{events: slowEvents{
		keyedEvents: newEmulatedEvents(),
		calls:       new(atomic.Int64),
		delay: func(call int64) time.Duration {
			if call == 1 {
				return time.Millisecond * 50
			}
			return 0
		},
	}}
	var w Word

	first := make(chan struct{})
	go func() {
		defer close(first)
		b.compareAndWait(&w, 0)
	}()
	require.Eventually(t, func() bool { return countingWaiters(&w) == 1 }, time.Second*5, time.Millisecond)

	notified := make(chan struct{})
	go func() {
		defer close(notified)
		b.notifyAll(&w)
	}()
	require.Eventually(t, func() bool { return b.payload(&w) == 1 }, time.Second*5, time.Millisecond)

	// joins the next round while the first waiter is yet to take its release
	second := make(chan struct{})
	go func() {
		defer close(second)
		b.compareAndWait(&w, 1)
	}()

	select {
	case <-first:
	case <-time.After(time.Second * 2):
		t.Fatalf(`waiter on generation 0 still blocked at generation 1, word=%#x`, w.load())
	}
	<-notified

	require.Eventually(t, func() bool { return countingWaiters(&w) == 1 }, time.Second*5, time.Millisecond)
	b.notifyAll(&w)
	<-second
	require.Zero(t, countingWaiters(&w))
	require.Zero(t, countingReleasing.get(w.load()))
	require.Equal(t, uint32(2), b.payload(&w))
}

func TestCountingBackend_broadcastRoundsWithSlowWaiters(t *testing.T) {
	defer checkNumGoroutines(time.Second * 5)(t)
	b := countingBackend{events: slowEvents{
		keyedEvents: newEmulatedEvents(),
		calls:       new(atomic.Int64),
		delay: func(call int64) time.Duration {
			if call%3 == 0 {
				return time.Duration(call%7) * 50 * time.Microsecond
			}
			return 0
		},
	}}
	var w Word
	const (
		waiters = 4
		rounds  = 200
	)
	var g errgroup.Group
	for range waiters {
		g.Go(func() error {
			// re-wait on the generation just observed
			for gen := uint32(0); gen < rounds; gen = b.payload(&w) {
				b.compareAndWait(&w, gen)
			}
			return nil
		})
	}
	for range rounds {
		time.Sleep(100 * time.Microsecond)
		b.notifyAll(&w)
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second * 10):
		t.Fatalf(`waiters still blocked after the last round, word=%#x`, w.load())
	}
	require.Zero(t, countingWaiters(&w))
	require.Equal(t, uint32(rounds), b.payload(&w))
}
