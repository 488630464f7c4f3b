package handoff

import (
	"sync/atomic"
)

const (
	// PayloadBits is the usable width of a queue payload.
	PayloadBits = RefBits - 1

	payloadMask  = 1<<PayloadBits - 1
	queueRefMask = 1<<RefBits - 1
)

// Payload extracts the payload of a queue word.
func Payload(v uintptr) uint32 { return uint32(v >> RefBits) }

// Head extracts the head reference of a queue word.
func Head(v uintptr) uintptr { return v & queueRefMask }

func pack(payload uint32, head uintptr) uintptr {
	return uintptr(payload&payloadMask)<<RefBits | head
}

// CompareAndWait blocks while the payload of word equals expected. Waiters
// are pushed onto an intrusive list headed in the word.
func CompareAndWait(word *atomic.Uintptr, expected uint32) {
	cur := word.Load()
	if Payload(cur) != expected {
		return
	}

	r := Acquire()
	defer r.Release()
	r.mu.Lock()
	defer r.mu.Unlock()

	for Payload(cur) == expected {
		r.next = Head(cur)
		r.consumed = false
		if !word.CompareAndSwap(cur, pack(expected, r.Ref())) {
			cur = word.Load()
			continue
		}
		for !r.consumed {
			r.wait()
		}
		// the same payload may have been stored again
		cur = word.Load()
	}
}

// StoreAndWake sets the payload of word, and wakes every waiter.
func StoreAndWake(word *atomic.Uintptr, payload uint32) {
	wakeList(Head(word.Swap(pack(payload, 0))))
}

// TryStoreAndWake is StoreAndWake, if the payload of word equals expected.
func TryStoreAndWake(word *atomic.Uintptr, expected, payload uint32) bool {
	for {
		cur := word.Load()
		if Payload(cur) != expected {
			return false
		}
		if word.CompareAndSwap(cur, pack(payload, 0)) {
			wakeList(Head(cur))
			return true
		}
	}
}

// NotifyAll increments the payload of word (wrapping), and wakes every
// waiter.
func NotifyAll(word *atomic.Uintptr) {
	for {
		cur := word.Load()
		if word.CompareAndSwap(cur, pack(Payload(cur)+1, 0)) {
			wakeList(Head(cur))
			return
		}
	}
}

// wakeList hands back every record in the detached list, in LIFO order.
func wakeList(ref uintptr) {
	for ref != 0 {
		r := Lookup(ref)
		r.lockForNotify()
		// must be read before the hand back, the owner may reuse the record
		// as soon as the mutex is released
		ref = r.next
		r.handBack()
		r.mu.Unlock()
	}
}
