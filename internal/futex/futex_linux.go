//go:build linux

package futex

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexWaitPrivate = 128 // FUTEX_WAIT | FUTEX_PRIVATE_FLAG
	futexWakePrivate = 129 // FUTEX_WAKE | FUTEX_PRIVATE_FLAG
)

const name = `futex`

func supported() bool { return true }

func wait(addr *uint32, val uint32, timeout time.Duration) (Outcome, error) {
	var errno unix.Errno
	if timeout < 0 {
		_, _, errno = unix.Syscall6(
			unix.SYS_FUTEX,
			uintptr(unsafe.Pointer(addr)),
			futexWaitPrivate,
			uintptr(val),
			0, // no timeout
			0,
			0,
		)
	} else {
		// relative to CLOCK_MONOTONIC
		ts := unix.NsecToTimespec(int64(timeout))
		_, _, errno = unix.Syscall6(
			unix.SYS_FUTEX,
			uintptr(unsafe.Pointer(addr)),
			futexWaitPrivate,
			uintptr(val),
			uintptr(unsafe.Pointer(&ts)),
			0,
			0,
		)
	}
	switch errno {
	case 0:
		return Woken, nil
	case unix.EAGAIN:
		return Mismatch, nil
	case unix.ETIMEDOUT:
		return TimedOut, nil
	case unix.EINTR:
		return Interrupted, nil
	default:
		return Woken, fmt.Errorf(`futex: wait: %w`, errno)
	}
}

func wake(addr *uint32, all bool) error {
	n := uintptr(1)
	if all {
		n = math.MaxInt32
	}
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		futexWakePrivate,
		n,
		0,
		0,
		0,
	)
	if errno != 0 {
		return fmt.Errorf(`futex: wake: %w`, errno)
	}
	return nil
}
