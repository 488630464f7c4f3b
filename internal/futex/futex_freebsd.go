//go:build freebsd

package futex

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	sysUmtxOp             = 454 // SYS__UMTX_OP
	umtxOpWaitUintPrivate = 15
	umtxOpWakePrivate     = 16
)

const name = `umtx`

func supported() bool { return true }

func wait(addr *uint32, val uint32, timeout time.Duration) (Outcome, error) {
	var errno unix.Errno
	if timeout < 0 {
		_, _, errno = unix.Syscall6(
			sysUmtxOp,
			uintptr(unsafe.Pointer(addr)),
			umtxOpWaitUintPrivate,
			uintptr(val),
			0,
			0,
			0,
		)
	} else {
		// uaddr carries the size of the timeout struct, uaddr2 points at it,
		// a plain timespec is a relative timeout
		ts := unix.NsecToTimespec(int64(timeout))
		_, _, errno = unix.Syscall6(
			sysUmtxOp,
			uintptr(unsafe.Pointer(addr)),
			umtxOpWaitUintPrivate,
			uintptr(val),
			unsafe.Sizeof(ts),
			uintptr(unsafe.Pointer(&ts)),
			0,
		)
	}
	switch errno {
	case 0:
		// also returned immediately on a value mismatch
		return Woken, nil
	case unix.ETIMEDOUT:
		return TimedOut, nil
	case unix.EINTR:
		return Interrupted, nil
	default:
		return Woken, fmt.Errorf(`futex: umtx wait: %w`, errno)
	}
}

func wake(addr *uint32, all bool) error {
	n := uintptr(1)
	if all {
		n = math.MaxInt32
	}
	_, _, errno := unix.Syscall6(
		sysUmtxOp,
		uintptr(unsafe.Pointer(addr)),
		umtxOpWakePrivate,
		n,
		0,
		0,
		0,
	)
	if errno != 0 {
		return fmt.Errorf(`futex: umtx wake: %w`, errno)
	}
	return nil
}
