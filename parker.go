package parking

import (
	"time"
)

// Park blocks the calling goroutine until Unpark is called on w. If a
// notification is already pending it is consumed, and Park returns
// immediately. The result is always Notified.
//
// At most one goroutine may be parked on w. A second concurrent Park panics
// with ErrAlreadyParked.
func Park(w *Word) WakeReason { return platform{}.park(w, -1) }

// ParkTimeout is Park, but gives up after timeout. If it returns TimedOut, a
// notification that raced with the timeout stays pending. If it returns
// Notified, w is left empty. A timeout <= 0 never blocks, it only consumes a
// pending notification.
func ParkTimeout(w *Word, timeout time.Duration) WakeReason {
	return platform{}.park(w, max(timeout, 0))
}

// Unpark wakes the goroutine parked on w, or, if there is none, leaves a
// notification pending for the next park. Any number of goroutines may call
// Unpark concurrently, and notifications do not accumulate.
//
// It returns true if this call delivered the notification, and false if one
// was already pending or being delivered by another call. Note that finding
// a pending notification yields false, not true: the result reports whether
// this call's notification took effect, so only the first of a coalesced
// run reports true.
func Unpark(w *Word) bool { return platform{}.unpark(w) }
