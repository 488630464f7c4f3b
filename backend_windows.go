//go:build windows

package parking

import (
	"fmt"
	"sync"
	"time"

	"github.com/joeycumines/go-parking/internal/futex"
	"github.com/joeycumines/go-parking/internal/keyedevent"
)

// windowsBackend uses WaitOnAddress where the DLL provides it (Windows 8+),
// and keyed events otherwise.
type windowsBackend struct{}

// ntKeyedEvents adapts a keyed event handle to keyedEvents.
type ntKeyedEvents struct {
	h *keyedevent.Handle
}

const windowsPayloadBits = min(futexPayloadBits, countingPayloadBits)

var windowsImpl = sync.OnceValue(func() backend {
	if futex.Supported() {
		getLogger().Debug().
			Str(`backend`, futex.Name()).
			Log(`parking: selected WaitOnAddress`)
		return futexBackend{}
	}
	h, err := keyedevent.Open()
	if err != nil {
		panic(fmt.Errorf(`parking: no wait primitive available: %w`, err))
	}
	getLogger().Debug().
		Str(`backend`, `keyedevent`).
		Log(`parking: WaitOnAddress unavailable, selected keyed events`)
	return countingBackend{events: ntKeyedEvents{h: h}}
})

func (x ntKeyedEvents) wait(key uintptr, timeout time.Duration) (bool, error) {
	return x.h.Wait(key, timeout)
}

func (x ntKeyedEvents) release(key uintptr) error { return x.h.Release(key) }

func (windowsBackend) name() string { return windowsImpl().name() }

func (windowsBackend) payloadBits() uint { return windowsImpl().payloadBits() }

func (windowsBackend) state(w *Word) State { return windowsImpl().state(w) }

func (windowsBackend) payload(w *Word) uint32 { return windowsImpl().payload(w) }

func (windowsBackend) park(w *Word, timeout time.Duration) WakeReason {
	return windowsImpl().park(w, timeout)
}

func (windowsBackend) unpark(w *Word) bool { return windowsImpl().unpark(w) }

func (windowsBackend) compareAndWait(w *Word, expected uint32) {
	windowsImpl().compareAndWait(w, expected)
}

func (windowsBackend) storeAndWake(w *Word, value uint32) { windowsImpl().storeAndWake(w, value) }

func (windowsBackend) tryStoreAndWake(w *Word, expected, value uint32) bool {
	return windowsImpl().tryStoreAndWake(w, expected, value)
}

func (windowsBackend) notifyAll(w *Word) { windowsImpl().notifyAll(w) }
