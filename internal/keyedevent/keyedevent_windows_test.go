//go:build windows

package keyedevent

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_waitTimeout(t *testing.T) {
	h, err := Open()
	require.NoError(t, err)
	var anchor uint64
	key := uintptr(unsafe.Pointer(&anchor))
	timedOut, err := h.Wait(key, 10*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, timedOut)
}

func TestHandle_releaseWakesWaiter(t *testing.T) {
	h, err := Open()
	require.NoError(t, err)
	var anchor uint64
	key := uintptr(unsafe.Pointer(&anchor))
	done := make(chan bool, 1)
	go func() {
		timedOut, err := h.Wait(key, -1)
		assert.NoError(t, err)
		done <- timedOut
	}()
	// blocks until the waiter arrives
	require.NoError(t, h.Release(key))
	select {
	case timedOut := <-done:
		assert.False(t, timedOut)
	case <-time.After(5 * time.Second):
		t.Fatal(`waiter not released`)
	}
}
