//go:build dragonfly

package futex

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"fortio.org/safecast"
	"golang.org/x/sys/unix"
)

const name = `umtx_sleep`

func supported() bool { return true }

func wait(addr *uint32, val uint32, timeout time.Duration) (Outcome, error) {
	// a timeout of 0 means forever
	var us int32
	if timeout > 0 {
		us = timeoutMicros(timeout)
	}
	_, _, errno := unix.Syscall(
		unix.SYS_UMTX_SLEEP,
		uintptr(unsafe.Pointer(addr)),
		uintptr(int32(val)),
		uintptr(us),
	)
	switch errno {
	case 0:
		return Woken, nil
	case unix.EBUSY:
		return Mismatch, nil
	case unix.EWOULDBLOCK:
		// returned both on timeout and spuriously
		if us != 0 {
			return TimedOut, nil
		}
		return Woken, nil
	case unix.EINTR:
		return Interrupted, nil
	default:
		return Woken, fmt.Errorf(`futex: umtx_sleep: %w`, errno)
	}
}

func wake(addr *uint32, all bool) error {
	// a count of 0 wakes everyone
	n := uintptr(1)
	if all {
		n = 0
	}
	_, _, errno := unix.Syscall(
		unix.SYS_UMTX_WAKEUP,
		uintptr(unsafe.Pointer(addr)),
		n,
		0,
	)
	if errno != 0 {
		return fmt.Errorf(`futex: umtx_wakeup: %w`, errno)
	}
	return nil
}

// timeoutMicros rounds up, so a sub-microsecond timeout still blocks, and
// clamps to the largest finite value, never to 0.
func timeoutMicros(timeout time.Duration) int32 {
	us, err := safecast.Conv[int32]((timeout + time.Microsecond - 1) / time.Microsecond)
	if err != nil {
		return math.MaxInt32
	}
	return us
}
