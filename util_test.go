package parking

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/go-parking/internal/futex"
)

// testBackends returns every backend that can run on this platform.
func testBackends() []backend {
	backends := []backend{
		spinBackend{},
		handoffBackend{},
		countingBackend{events: newEmulatedEvents()},
	}
	if futex.Supported() {
		backends = append(backends, futexBackend{})
	}
	return append(backends, platformTestBackends()...)
}

func forEachBackend(t *testing.T, fn func(t *testing.T, b backend)) {
	t.Helper()
	for _, b := range testBackends() {
		t.Run(b.name(), func(t *testing.T) {
			defer checkNumGoroutines(time.Second * 5)(t)
			fn(t, b)
		})
	}
}

func checkNumGoroutines(timeout time.Duration) func(t *testing.T) {
	before := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			after := runtime.NumGoroutine()
			if after <= before {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf(`goroutine leak: %d before, %d after`, before, after)
				return
			}
			time.Sleep(time.Millisecond * 10)
		}
	}
}

// emulatedEvents models keyed events with unbuffered channels: a release
// blocks until a waiter receives it.
type emulatedEvents struct {
	keys *sync.Map
}

func newEmulatedEvents() emulatedEvents { return emulatedEvents{keys: new(sync.Map)} }

func (x emulatedEvents) ch(key uintptr) chan struct{} {
	if v, ok := x.keys.Load(key); ok {
		return v.(chan struct{})
	}
	v, _ := x.keys.LoadOrStore(key, make(chan struct{}))
	return v.(chan struct{})
}

func (x emulatedEvents) wait(key uintptr, timeout time.Duration) (bool, error) {
	ch := x.ch(key)
	if timeout < 0 {
		<-ch
		return false, nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return false, nil
	case <-timer.C:
		return true, nil
	}
}

func (x emulatedEvents) release(key uintptr) error {
	x.ch(key) <- struct{}{}
	return nil
}
