// Package futex wraps the native "compare and block" primitives of each
// supported operating system behind one shape: block while a 32-bit word
// holds an expected value, and wake one or all blocked callers.
//
// Implementations:
//   - linux (and android): futex(2), FUTEX_WAIT_PRIVATE / FUTEX_WAKE_PRIVATE
//   - freebsd: _umtx_op(2), UMTX_OP_WAIT_UINT_PRIVATE / UMTX_OP_WAKE_PRIVATE
//   - darwin (and ios): ulock_wait / ulock_wake
//   - dragonfly: umtx_sleep(2) / umtx_wakeup(2)
//   - windows: WaitOnAddress / WakeByAddress*, when the DLL provides them
//
// Every return from Wait may be spurious. Callers must re-check their own
// state after each one.
package futex

import (
	"time"
)

// Outcome classifies why a call to Wait returned.
type Outcome uint8

const (
	// Woken means the wait returned without a more specific reason. It
	// includes wakes by Wake/WakeAll, and spurious returns.
	Woken Outcome = iota
	// Mismatch means the word did not hold the expected value, so the caller
	// never blocked. Not every platform reports this.
	Mismatch
	// TimedOut means the timeout elapsed.
	TimedOut
	// Interrupted means the wait was interrupted, e.g. by a signal.
	Interrupted
)

// String returns the name of the outcome.
func (x Outcome) String() string {
	switch x {
	case Woken:
		return `woken`
	case Mismatch:
		return `mismatch`
	case TimedOut:
		return `timed out`
	case Interrupted:
		return `interrupted`
	default:
		return `unknown`
	}
}

// Supported reports whether this platform provides a native primitive. If it
// returns false, Wait and Wake panic.
func Supported() bool { return supported() }

// Name identifies the native primitive, e.g. "futex" or "ulock".
func Name() string { return name }

// Wait blocks the calling thread while *addr == val, until woken, or until
// timeout elapses. A negative timeout waits forever. A zero timeout returns
// TimedOut without making a system call.
//
// A non-nil error means the primitive reported something unexpected. The
// returned outcome is then Woken, and the caller should treat it as a
// spurious wakeup.
func Wait(addr *uint32, val uint32, timeout time.Duration) (Outcome, error) {
	if addr == nil {
		panic(`futex: nil address`)
	}
	if timeout == 0 {
		return TimedOut, nil
	}
	return wait(addr, val, timeout)
}

// Wake wakes at most one thread blocked in Wait on addr.
func Wake(addr *uint32) error {
	if addr == nil {
		panic(`futex: nil address`)
	}
	return wake(addr, false)
}

// WakeAll wakes every thread blocked in Wait on addr.
func WakeAll(addr *uint32) error {
	if addr == nil {
		panic(`futex: nil address`)
	}
	return wake(addr, true)
}
