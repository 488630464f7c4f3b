//go:build windows

package keyedevent

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modNtdll                = windows.NewLazySystemDLL(`ntdll.dll`)
	procNtCreateKeyedEvent  = modNtdll.NewProc(`NtCreateKeyedEvent`)
	procNtWaitForKeyedEvent = modNtdll.NewProc(`NtWaitForKeyedEvent`)
	procNtReleaseKeyedEvent = modNtdll.NewProc(`NtReleaseKeyedEvent`)
)

const (
	statusSuccess = windows.NTStatus(0x00000000)
	statusTimeout = windows.NTStatus(0x00000102)
)

// Handle is a keyed event object. A single handle serves any number of keys.
type Handle struct {
	h windows.Handle
}

// Supported reports whether ntdll exports the keyed event API.
func Supported() bool {
	return procNtCreateKeyedEvent.Find() == nil &&
		procNtWaitForKeyedEvent.Find() == nil &&
		procNtReleaseKeyedEvent.Find() == nil
}

// Open creates a new keyed event object. It is never closed by this package,
// callers are expected to hold one for the lifetime of the process.
func Open() (*Handle, error) {
	if !Supported() {
		return nil, fmt.Errorf(`keyedevent: ntdll does not export the keyed event API`)
	}
	var h windows.Handle
	r1, _, _ := procNtCreateKeyedEvent.Call(
		uintptr(unsafe.Pointer(&h)),
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0,
		0,
	)
	if status := windows.NTStatus(r1); status != statusSuccess {
		return nil, fmt.Errorf(`keyedevent: NtCreateKeyedEvent: %w`, status)
	}
	return &Handle{h: h}, nil
}

// Wait blocks until a Release of key, or until timeout elapses (a negative
// timeout waits forever). The key must be even. The wait is not alertable, so
// a nil error without timedOut always means a Release was consumed.
func (x *Handle) Wait(key uintptr, timeout time.Duration) (timedOut bool, err error) {
	var r1 uintptr
	if timeout < 0 {
		r1, _, _ = procNtWaitForKeyedEvent.Call(uintptr(x.h), key, 0, 0)
	} else {
		// relative, in 100ns units
		due := -int64((timeout + 99) / 100)
		r1, _, _ = procNtWaitForKeyedEvent.Call(uintptr(x.h), key, 0, uintptr(unsafe.Pointer(&due)))
	}
	switch status := windows.NTStatus(r1); status {
	case statusSuccess:
		return false, nil
	case statusTimeout:
		return timeout >= 0, nil
	default:
		return false, fmt.Errorf(`keyedevent: NtWaitForKeyedEvent: %w`, status)
	}
}

// Release wakes exactly one thread waiting on key, blocking until there is
// one.
func (x *Handle) Release(key uintptr) error {
	r1, _, _ := procNtReleaseKeyedEvent.Call(uintptr(x.h), key, 0, 0)
	if status := windows.NTStatus(r1); status != statusSuccess {
		return fmt.Errorf(`keyedevent: NtReleaseKeyedEvent: %w`, status)
	}
	return nil
}
