package parking

import (
	"time"

	"github.com/joeycumines/go-parking/internal/handoff"
)

// backend maps the Parker and Waiters protocols onto a blocking primitive.
// Exactly one implementation is compiled in as platform, the rest are kept
// buildable so they can be tested anywhere.
type backend interface {
	// park blocks until notified, or until timeout elapses. A negative
	// timeout waits forever, a zero timeout never blocks.
	park(w *Word, timeout time.Duration) WakeReason
	unpark(w *Word) bool
	compareAndWait(w *Word, expected uint32)
	storeAndWake(w *Word, value uint32)
	tryStoreAndWake(w *Word, expected, value uint32) bool
	notifyAll(w *Word)
	payload(w *Word) uint32
	state(w *Word) State
	payloadBits() uint
	name() string
}

var (
	_ backend = futexBackend{}
	_ backend = spinBackend{}
	_ backend = handoffBackend{}
	_ backend = countingBackend{}
	_ backend = platform{}
)

// ErrAlreadyParked is the value Park and ParkTimeout panic with, if another
// goroutine is already parked on the same Word.
var ErrAlreadyParked = handoff.ErrAlreadyParked

// Backend identifies the blocking primitive in use, e.g. "futex", "ulock",
// "waitonaddress", "keyedevent", "handoff" or "spin".
func Backend() string { return platform{}.name() }

// beginPark moves a tagged word from empty to parked, returning true, or
// consumes a pending notification, returning false.
func beginPark(w *Word) bool {
	for {
		switch w.load() {
		case tagEmpty:
			if w.cas(tagEmpty, tagParked) {
				return true
			}
		case tagNotified:
			if w.cas(tagNotified, tagEmpty) {
				return false
			}
		default:
			panic(ErrAlreadyParked)
		}
	}
}

// tryConsume is park with a zero timeout, for tagged words.
func tryConsume(w *Word) WakeReason {
	if w.cas(tagNotified, tagEmpty) {
		return Notified
	}
	if w.load() == tagParked {
		panic(ErrAlreadyParked)
	}
	return TimedOut
}

// tagState decodes a tagged Parker word.
func tagState(w *Word) State {
	switch w.load() {
	case tagEmpty:
		return StateEmpty
	case tagParked:
		return StateParked
	default:
		return StateNotified
	}
}

// deadline tracks the remaining time of a park call.
type deadline struct {
	at      time.Time
	forever bool
}

func newDeadline(timeout time.Duration) deadline {
	if timeout < 0 {
		return deadline{forever: true}
	}
	return deadline{at: time.Now().Add(timeout)}
}

// remaining is negative if waiting forever, otherwise at least 0.
func (x deadline) remaining() time.Duration {
	if x.forever {
		return -1
	}
	return max(time.Until(x.at), 0)
}
