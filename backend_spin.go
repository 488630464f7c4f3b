package parking

import (
	"runtime"
	"time"
)

// spinBackend polls the word, yielding and then sleeping between polls. It
// shares the futex layout, but never sets the waiters bit.
type spinBackend struct{}

const (
	spinYields   = 16
	spinMinSleep = time.Microsecond
	spinMaxSleep = time.Millisecond
)

// backoff paces a polling loop.
type backoff struct {
	yields int
	sleep  time.Duration
}

// pause yields, then sleeps for doubling durations, never past limit (if
// limit is non-negative).
func (x *backoff) pause(limit time.Duration) {
	if x.yields < spinYields {
		x.yields++
		runtime.Gosched()
		return
	}
	switch {
	case x.sleep == 0:
		x.sleep = spinMinSleep
	case x.sleep < spinMaxSleep:
		x.sleep = min(x.sleep*2, spinMaxSleep)
	}
	d := x.sleep
	if limit >= 0 {
		d = min(d, limit)
	}
	time.Sleep(d)
}

func (spinBackend) name() string { return `spin` }

func (spinBackend) payloadBits() uint { return futexPayloadBits }

func (spinBackend) state(w *Word) State { return tagState(w) }

func (spinBackend) payload(w *Word) uint32 { return uint32(futexPayload.get(w.load())) }

func (spinBackend) park(w *Word, timeout time.Duration) WakeReason {
	if timeout == 0 {
		return tryConsume(w)
	}
	if !beginPark(w) {
		return Notified
	}
	var (
		d = newDeadline(timeout)
		b backoff
	)
	for {
		if w.cas(tagNotified, tagEmpty) {
			return Notified
		}
		remaining := d.remaining()
		if remaining == 0 {
			if w.cas(tagParked, tagEmpty) {
				return TimedOut
			}
			w.v.Store(tagEmpty)
			return Notified
		}
		b.pause(remaining)
	}
}

func (spinBackend) unpark(w *Word) bool { return w.swap(tagNotified) != tagNotified }

func (spinBackend) compareAndWait(w *Word, expected uint32) {
	var b backoff
	for futexPayload.get(w.load()) == uintptr(expected) {
		b.pause(-1)
	}
}

func (spinBackend) storeAndWake(w *Word, value uint32) {
	w.swap(futexPayload.set(0, uintptr(value)))
}

func (spinBackend) tryStoreAndWake(w *Word, expected, value uint32) bool {
	_, ok := w.update(func(old uintptr) (uintptr, bool) {
		if futexPayload.get(old) != uintptr(expected) {
			return 0, false
		}
		return futexPayload.set(0, uintptr(value)), true
	})
	return ok
}

func (spinBackend) notifyAll(w *Word) {
	w.update(func(old uintptr) (uintptr, bool) {
		return futexPayload.set(0, futexPayload.get(old)+1), true
	})
}
