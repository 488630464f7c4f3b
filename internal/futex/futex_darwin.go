//go:build darwin

package futex

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"fortio.org/safecast"
	"golang.org/x/sys/unix"
)

// ulock_wait and ulock_wake are private, but stable since Darwin 16 (macOS
// 10.12), and are what libdispatch and libc++ use.
const (
	sysUlockWait     = 515
	sysUlockWake     = 516
	ulCompareAndWait = 1
	ulfWakeAll       = 0x00000100
)

const name = `ulock`

func supported() bool { return true }

func wait(addr *uint32, val uint32, timeout time.Duration) (Outcome, error) {
	var us uint32 // 0 is infinite
	if timeout > 0 {
		us = timeoutMicros(timeout)
	}
	r1, _, errno := unix.Syscall6(
		sysUlockWait,
		ulCompareAndWait,
		uintptr(unsafe.Pointer(addr)),
		uintptr(val),
		uintptr(us),
		0,
		0,
	)
	if int(r1) >= 0 {
		// r1 is the number of remaining waiters
		return Woken, nil
	}
	switch errno {
	case unix.ETIMEDOUT:
		return TimedOut, nil
	case unix.EINTR:
		return Interrupted, nil
	case unix.EFAULT:
		// libdispatch treats this as a spurious wakeup
		return Woken, nil
	default:
		return Woken, fmt.Errorf(`futex: ulock wait: %w`, errno)
	}
}

func wake(addr *uint32, all bool) error {
	op := uintptr(ulCompareAndWait)
	if all {
		op |= ulfWakeAll
	}
	r1, _, errno := unix.Syscall(
		sysUlockWake,
		op,
		uintptr(unsafe.Pointer(addr)),
		0,
	)
	if int(r1) >= 0 || errno == unix.ENOENT {
		// ENOENT: nobody was waiting
		return nil
	}
	return fmt.Errorf(`futex: ulock wake: %w`, errno)
}

// timeoutMicros rounds up, so a sub-microsecond timeout still blocks, and
// clamps to the largest finite value.
func timeoutMicros(timeout time.Duration) uint32 {
	us, err := safecast.Conv[uint32]((timeout + time.Microsecond - 1) / time.Microsecond)
	if err != nil {
		return math.MaxUint32
	}
	return us
}
