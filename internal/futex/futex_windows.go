//go:build windows

package futex

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"fortio.org/safecast"
	"golang.org/x/sys/windows"
)

// MSDN documents these in kernel32.dll, they are actually exported by the
// synch API set (Windows 8+).
var (
	modSynch                = windows.NewLazySystemDLL(`api-ms-win-core-synch-l1-2-0.dll`)
	procWaitOnAddress       = modSynch.NewProc(`WaitOnAddress`)
	procWakeByAddressSingle = modSynch.NewProc(`WakeByAddressSingle`)
	procWakeByAddressAll    = modSynch.NewProc(`WakeByAddressAll`)
)

var available = sync.OnceValue(func() bool {
	return procWaitOnAddress.Find() == nil &&
		procWakeByAddressSingle.Find() == nil &&
		procWakeByAddressAll.Find() == nil
})

const name = `waitonaddress`

func supported() bool { return available() }

func wait(addr *uint32, val uint32, timeout time.Duration) (Outcome, error) {
	if !supported() {
		panic(`futex: WaitOnAddress is not available`)
	}
	ms := uint32(windows.INFINITE)
	if timeout > 0 {
		ms = timeoutMillis(timeout)
	}
	r1, _, err := procWaitOnAddress.Call(
		uintptr(unsafe.Pointer(addr)),
		uintptr(unsafe.Pointer(&val)),
		unsafe.Sizeof(val),
		uintptr(ms),
	)
	if r1 != 0 {
		return Woken, nil
	}
	if errors.Is(err, windows.ERROR_TIMEOUT) {
		return TimedOut, nil
	}
	return Woken, fmt.Errorf(`futex: WaitOnAddress: %w`, err)
}

func wake(addr *uint32, all bool) error {
	if !supported() {
		panic(`futex: WaitOnAddress is not available`)
	}
	proc := procWakeByAddressSingle
	if all {
		proc = procWakeByAddressAll
	}
	// no return value
	_, _, _ = proc.Call(uintptr(unsafe.Pointer(addr)))
	return nil
}

// timeoutMillis rounds up, and clamps below INFINITE.
func timeoutMillis(timeout time.Duration) uint32 {
	ms, err := safecast.Conv[uint32]((timeout + time.Millisecond - 1) / time.Millisecond)
	if err != nil || ms >= windows.INFINITE {
		return windows.INFINITE - 1
	}
	return ms
}
