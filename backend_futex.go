package parking

import (
	"time"

	"github.com/joeycumines/go-parking/internal/futex"
)

// futexBackend blocks in the native compare and block primitive.
//
// Parker word: tagEmpty, tagParked or tagNotified.
//
// Waiters word: bit 0 is set once a waiter may be blocked, the payload is in
// bits 1-31. Both fit in the 32 bits the primitive compares.
type futexBackend struct{}

const futexPayloadBits = 31

var (
	futexHasWaiters = field{shift: 0, width: 1}
	futexPayload    = field{shift: 1, width: futexPayloadBits}
)

func (futexBackend) name() string { return futex.Name() }

func (futexBackend) payloadBits() uint { return futexPayloadBits }

func (futexBackend) state(w *Word) State { return tagState(w) }

func (futexBackend) payload(w *Word) uint32 { return uint32(futexPayload.get(w.load())) }

func (x futexBackend) park(w *Word, timeout time.Duration) WakeReason {
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
			// only an unparker could have changed it
			w.v.Store(tagEmpty)
			return Notified
		}
		if _, err := futex.Wait(w.low32(), uint32(tagParked), remaining); err != nil {
			logNativeError(x.name(), `wait`, err)
		}
		if w.cas(tagNotified, tagEmpty) {
			return Notified
		}
	}
}

func (x futexBackend) unpark(w *Word) bool {
	switch w.swap(tagNotified) {
	case tagParked:
		if err := futex.Wake(w.low32()); err != nil {
			logNativeError(x.name(), `wake`, err)
		}
		return true
	case tagNotified:
		return false
	default:
		return true
	}
}

func (x futexBackend) compareAndWait(w *Word, expected uint32) {
	blocked := uint32(futexPayload.set(futexHasWaiters.set(0, 1), uintptr(expected)))
	for {
		cur := w.load()
		if futexPayload.get(cur) != uintptr(expected) {
			return
		}
		if futexHasWaiters.get(cur) == 0 && !w.cas(cur, futexHasWaiters.set(cur, 1)) {
			continue
		}
		if _, err := futex.Wait(w.low32(), blocked, -1); err != nil {
			logNativeError(x.name(), `wait`, err)
		}
	}
}

func (x futexBackend) storeAndWake(w *Word, value uint32) {
	old := w.swap(futexPayload.set(0, uintptr(value)))
	x.wakeAll(w, old)
}

func (x futexBackend) tryStoreAndWake(w *Word, expected, value uint32) bool {
	old, ok := w.update(func(old uintptr) (uintptr, bool) {
		if futexPayload.get(old) != uintptr(expected) {
			return 0, false
		}
		return futexPayload.set(0, uintptr(value)), true
	})
	if ok {
		x.wakeAll(w, old)
	}
	return ok
}

func (x futexBackend) notifyAll(w *Word) {
	old, _ := w.update(func(old uintptr) (uintptr, bool) {
		return futexPayload.set(0, futexPayload.get(old)+1), true
	})
	x.wakeAll(w, old)
}

func (x futexBackend) wakeAll(w *Word, old uintptr) {
	if futexHasWaiters.get(old) == 0 {
		return
	}
	if err := futex.WakeAll(w.low32()); err != nil {
		logNativeError(x.name(), `wake`, err)
	}
}
