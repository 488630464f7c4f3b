package parking

import (
	"time"

	"github.com/joeycumines/go-parking/internal/handoff"
)

// handoffBackend parks on a per-call mutex and signal, borrowed from a slab
// and referenced from the word. See the handoff package for the layouts.
type handoffBackend struct{}

func (handoffBackend) name() string { return `handoff` }

func (handoffBackend) payloadBits() uint { return handoff.PayloadBits }

func (handoffBackend) state(w *Word) State {
	switch ref, notify := handoff.Decode(w.load()); {
	case notify:
		return StateNotified
	case ref != 0:
		return StateParked
	default:
		return StateEmpty
	}
}

func (handoffBackend) payload(w *Word) uint32 { return handoff.Payload(w.load()) }

func (handoffBackend) park(w *Word, timeout time.Duration) WakeReason {
	if handoff.Park(&w.v, timeout) {
		return Notified
	}
	return TimedOut
}

func (handoffBackend) unpark(w *Word) bool { return handoff.Unpark(&w.v) }

func (handoffBackend) compareAndWait(w *Word, expected uint32) {
	handoff.CompareAndWait(&w.v, expected)
}

func (handoffBackend) storeAndWake(w *Word, value uint32) { handoff.StoreAndWake(&w.v, value) }

func (handoffBackend) tryStoreAndWake(w *Word, expected, value uint32) bool {
	return handoff.TryStoreAndWake(&w.v, expected, value)
}

func (handoffBackend) notifyAll(w *Word) { handoff.NotifyAll(&w.v) }
