package parking

import (
	"math/bits"
	"time"
)

// countingBackend parks on keyed events, which cannot compare a value, and
// whose release blocks until a waiter takes it. The word therefore counts
// committed waiters, and every notifier releases exactly as many times as it
// removed from the count.
//
// Parker word: tagEmpty, tagParked (a count of one) or tagNotified.
//
// Waiters word: the waiter count in the low half, the payload above it, and
// the top bit set while a notifier is handing out releases. Waiters only join
// the count while that bit is clear, so a release is only ever taken by a
// waiter of the round it was counted for.
type countingBackend struct {
	events keyedEvents
}

// keyedEvents is the keyed event primitive, keyed by word address.
type keyedEvents interface {
	// wait blocks until a release of key, or until timeout elapses (a
	// negative timeout waits forever). A nil error without timedOut means a
	// release was consumed.
	wait(key uintptr, timeout time.Duration) (timedOut bool, err error)
	// release wakes exactly one waiter of key, blocking until there is one.
	release(key uintptr) error
}

const countingPayloadBits = bits.UintSize/2 - 1

var (
	countingCount     = field{shift: 0, width: bits.UintSize / 2}
	countingPayload   = field{shift: bits.UintSize / 2, width: countingPayloadBits}
	countingReleasing = field{shift: bits.UintSize - 1, width: 1}
)

func (countingBackend) name() string { return `keyedevent` }

func (countingBackend) payloadBits() uint { return countingPayloadBits }

func (countingBackend) state(w *Word) State { return tagState(w) }

func (countingBackend) payload(w *Word) uint32 { return uint32(countingPayload.get(w.load())) }

func (x countingBackend) park(w *Word, timeout time.Duration) WakeReason {
	if timeout == 0 {
		return tryConsume(w)
	}
	if !beginPark(w) {
		return Notified
	}
	d := newDeadline(timeout)
	for {
		remaining := d.remaining()
		if remaining == 0 {
			if w.cas(tagParked, tagEmpty) {
				return TimedOut
			}
			// the unparker is committed to a release, which must be taken
			x.waitRelease(w)
			w.v.Store(tagEmpty)
			return Notified
		}
		timedOut, err := x.events.wait(w.key(), remaining)
		if err != nil {
			logNativeError(x.name(), `wait`, err)
			continue
		}
		if !timedOut {
			w.v.Store(tagEmpty)
			return Notified
		}
	}
}

func (x countingBackend) unpark(w *Word) bool {
	switch w.swap(tagNotified) {
	case tagParked:
		x.releaseN(w, 1)
		return true
	case tagNotified:
		return false
	default:
		return true
	}
}

func (x countingBackend) compareAndWait(w *Word, expected uint32) {
	var b backoff
	for {
		old, ok := w.update(func(old uintptr) (uintptr, bool) {
			if countingPayload.get(old) != uintptr(expected) || countingReleasing.get(old) != 0 {
				return 0, false
			}
			return countingCount.set(old, countingCount.get(old)+1), true
		})
		if ok {
			x.waitRelease(w)
			b = backoff{}
			continue
		}
		if countingPayload.get(old) != uintptr(expected) {
			return
		}
		// the previous round's waiters are still taking their releases
		b.pause(-1)
	}
}

func (x countingBackend) storeAndWake(w *Word, value uint32) {
	x.wake(w, func(uintptr) (uintptr, bool) { return uintptr(value), true })
}

func (x countingBackend) tryStoreAndWake(w *Word, expected, value uint32) bool {
	return x.wake(w, func(old uintptr) (uintptr, bool) {
		return uintptr(value), countingPayload.get(old) == uintptr(expected)
	})
}

func (x countingBackend) notifyAll(w *Word) {
	x.wake(w, func(old uintptr) (uintptr, bool) { return countingPayload.get(old) + 1, true })
}

// wake stores the payload chosen by fn, then releases every counted waiter.
// The notifier that takes a non-zero count owns the releasing bit until it
// has handed out every release. The count is always zero while the bit is
// set, so concurrent notifiers release nothing, and leave the bit alone.
func (x countingBackend) wake(w *Word, fn func(old uintptr) (payload uintptr, ok bool)) bool {
	old, ok := w.update(func(old uintptr) (uintptr, bool) {
		payload, ok := fn(old)
		if !ok {
			return 0, false
		}
		next := countingPayload.set(0, payload)
		if countingReleasing.get(old) != 0 || countingCount.get(old) != 0 {
			next = countingReleasing.set(next, 1)
		}
		return next, true
	})
	if !ok {
		return false
	}
	if n := countingCount.get(old); n != 0 {
		x.releaseN(w, n)
		w.update(func(old uintptr) (uintptr, bool) { return countingReleasing.set(old, 0), true })
	}
	return true
}

// waitRelease blocks until a release is consumed.
func (x countingBackend) waitRelease(w *Word) {
	for {
		_, err := x.events.wait(w.key(), -1)
		if err == nil {
			return
		}
		logNativeError(x.name(), `wait`, err)
	}
}

func (x countingBackend) releaseN(w *Word, n uintptr) {
	for ; n != 0; n-- {
		for {
			err := x.events.release(w.key())
			if err == nil {
				break
			}
			logNativeError(x.name(), `release`, err)
		}
	}
}
