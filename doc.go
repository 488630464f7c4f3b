// Package parking lets goroutines block until woken by another goroutine, or
// until a timeout, using a single machine word (Word) as the only shared
// state.
//
// A Word is used in exactly one of two roles:
//
//   - Parker: at most one goroutine blocks in Park or ParkTimeout, and any
//     number of goroutines may call Unpark. A notification sent while nobody
//     is parked is remembered, and consumed by the next park, so a wakeup is
//     never lost.
//   - Waiters: any number of goroutines block in Wait (or CompareAndWait)
//     while the word's payload holds an expected value, and NotifyAll (or
//     StoreAndWake) changes the payload and wakes all of them.
//
// The blocking primitive is chosen at compile time. By default it is the
// operating system's "compare and block" call where there is one (futex on
// Linux and Android, _umtx_op on FreeBSD, ulock on Darwin, WaitOnAddress on
// Windows 8+, with NT keyed events on older Windows), and a mutex plus signal
// handoff everywhere else. The build tags parking_handoff and parking_spin
// force the handoff and spin-loop backends respectively. Native backends
// block the calling goroutine's OS thread, the others only the goroutine.
//
// The zero Word is ready to use, as an empty Parker or as generation 0 with
// no waiters. A Word must not be copied after first use.
//
// Unexpected errors from native primitives are never returned. They are
// logged, see SetLogger, and treated as spurious wakeups.
package parking
