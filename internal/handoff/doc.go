// Package handoff implements parking for platforms without a native
// "compare and block" primitive, using a mutex and a signal per waiting
// goroutine, published through the shared word.
//
// The word can only hold an integer, so the per-call state (the Record) is
// referenced by index into a process-wide slab, rather than by address. A
// Record is owned by the parking call that acquired it. While its reference
// is published in the word, a notifier may briefly borrow it, but only under
// the Record's own mutex, and the owner will not return (and so will not
// release the Record for reuse) until it has observed the notifier's
// hand-back under that same mutex.
//
// Parker layout:
//
//	bit 0    notify, set by the first unparker
//	bits 1.. reference to the parked goroutine's Record, or 0
//
// Queue (broadcast) layout:
//
//	low RefBits bits   reference to the head Record of the waiter list, or 0
//	high bits          payload (generation, or a caller value)
package handoff
