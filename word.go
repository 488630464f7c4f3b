package parking

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

type (
	// Word is the shared state of a Parker or of a set of Waiters. The zero
	// value is ready to use.
	Word struct {
		_ noCopy
		v atomic.Uintptr
	}

	// State is the logical Parker state of a Word.
	State uint8

	// field is a bit range of a word
	field struct {
		shift uint
		width uint
	}

	noCopy struct{}
)

const (
	// StateEmpty means no goroutine is parked, and no notification is
	// pending.
	StateEmpty State = iota
	// StateParked means a goroutine is parked, or committed to parking.
	StateParked
	// StateNotified means a notification is pending, or being delivered.
	StateNotified
)

// Parker tags, for the backends that store a tag in the word.
const (
	tagEmpty    uintptr = 0
	tagParked   uintptr = 1
	tagNotified uintptr = 2
)

// String returns the name of the state.
func (x State) String() string {
	switch x {
	case StateEmpty:
		return `empty`
	case StateParked:
		return `parked`
	case StateNotified:
		return `notified`
	default:
		return `unknown`
	}
}

// Load returns the raw value of the word. Its layout depends on the backend.
func (w *Word) Load() uintptr { return w.load() }

// ParkerState decodes the word as a Parker.
func (w *Word) ParkerState() State { return platform{}.state(w) }

// Payload decodes the word as Waiters, returning its generation (or the
// value last stored by StoreAndWake).
func (w *Word) Payload() uint32 { return platform{}.payload(w) }

func (w *Word) load() uintptr { return w.v.Load() }

func (w *Word) cas(old, next uintptr) bool { return w.v.CompareAndSwap(old, next) }

func (w *Word) swap(next uintptr) uintptr { return w.v.Swap(next) }

// update applies fn until its result is stored, returning the replaced
// value, or until fn declines, returning the value it declined.
func (w *Word) update(fn func(old uintptr) (next uintptr, ok bool)) (old uintptr, updated bool) {
	for {
		old = w.v.Load()
		next, ok := fn(old)
		if !ok {
			return old, false
		}
		if w.v.CompareAndSwap(old, next) {
			return old, true
		}
	}
}

// key identifies the word to primitives keyed by address. It is always even.
func (w *Word) key() uintptr { return uintptr(unsafe.Pointer(w)) }

// low32 addresses the least significant 32 bits of the word, the only part
// that 32-bit compare and block primitives see.
func (w *Word) low32() *uint32 {
	p := unsafe.Pointer(&w.v)
	if cpu.IsBigEndian && unsafe.Sizeof(uintptr(0)) == 8 {
		p = unsafe.Add(p, 4)
	}
	return (*uint32)(p)
}

func (x field) mask() uintptr { return 1<<x.width - 1 }

func (x field) get(v uintptr) uintptr { return v >> x.shift & x.mask() }

// set replaces the field in v, truncating value to the field's width.
func (x field) set(v, value uintptr) uintptr {
	return v&^(x.mask()<<x.shift) | (value&x.mask())<<x.shift
}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
