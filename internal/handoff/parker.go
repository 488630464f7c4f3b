package handoff

import (
	"errors"
	"sync/atomic"
	"time"
)

// NotifyBit is set by the unparker that wins the race to notify.
const NotifyBit uintptr = 1

const parkerRefShift = 1

// ErrAlreadyParked is the panic value for a second concurrent parker.
var ErrAlreadyParked = errors.New(`parking: word already has a parked goroutine`)

// Decode splits a parker word into the published reference and notify bit.
func Decode(v uintptr) (ref uintptr, notify bool) {
	return v >> parkerRefShift, v&NotifyBit != 0
}

// Park blocks until Unpark, or until timeout elapses (a negative timeout
// waits forever). It reports whether it was notified. A notification that
// was pending before the call is consumed without blocking.
func Park(word *atomic.Uintptr, timeout time.Duration) (notified bool) {
	if word.CompareAndSwap(NotifyBit, 0) {
		return true
	}
	if timeout == 0 {
		if ref, _ := Decode(word.Load()); ref != 0 {
			panic(ErrAlreadyParked)
		}
		return false
	}

	// deferred in this order, so the record is unlocked before it is
	// released, on every path
	r := Acquire()
	defer r.Release()
	r.mu.Lock()
	defer r.mu.Unlock()

	parked := r.Ref() << parkerRefShift
	if !publish(word, parked) {
		return true
	}

	if timeout < 0 {
		for !r.consumed {
			r.wait()
		}
		word.And(^NotifyBit)
		return true
	}

	deadline := time.Now().Add(timeout)
	for !r.consumed {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		r.waitTimeout(remaining)
	}
	if !r.consumed && word.CompareAndSwap(parked, 0) {
		return false
	}
	// an unparker set NotifyBit before we could retract, and is committed to
	// handing the record back, it may be blocked on our mutex right now
	for !r.consumed {
		r.wait()
	}
	word.And(^NotifyBit)
	return true
}

// publish moves the word from empty to parked. It returns false if it
// consumed a pending notification instead.
func publish(word *atomic.Uintptr, parked uintptr) bool {
	for {
		switch cur := word.Load(); cur {
		case 0:
			if word.CompareAndSwap(0, parked) {
				return true
			}
		case NotifyBit:
			if word.CompareAndSwap(NotifyBit, 0) {
				return false
			}
		default:
			panic(ErrAlreadyParked)
		}
	}
}

// Unpark notifies the goroutine parked on word, or records a notification for
// the next Park. It returns false if a notification was already pending or
// being delivered by another caller.
func Unpark(word *atomic.Uintptr) bool {
	old := word.Or(NotifyBit)
	ref, notify := Decode(old)
	if notify {
		return false
	}
	if ref == 0 {
		return true
	}
	// the owner cannot return while the word holds ref and NotifyBit
	r := Lookup(ref)
	r.lockForNotify()
	word.And(NotifyBit)
	r.handBack()
	r.mu.Unlock()
	return true
}
