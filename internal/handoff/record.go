package handoff

import (
	"math/bits"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// RefBits is the width of a queue reference, the low half of the word.
	RefBits = bits.UintSize / 2

	// refs are index+1, and must fit in RefBits
	maxRecords = min(1<<20, 1<<RefBits-1)

	chunkBits = 8
	chunkSize = 1 << chunkBits
	maxChunks = (maxRecords + chunkSize - 1) / chunkSize
)

type (
	// Record is the per-call state of one parked goroutine: a mutex, a
	// single-waiter signal, and the consumed flag that distinguishes a real
	// hand-back from a spurious wake.
	Record struct {
		mu sync.Mutex
		// buffered (1), only ever received from by the owner
		signal chan struct{}
		// lazily created, only touched by the owner
		timer *time.Timer
		// next is the queue link, written by the owner before it publishes
		// the record, read by the notifier
		next uintptr
		// consumed is set by the notifier, guarded by mu
		consumed bool
		// live is the sentinel checked by notifiers, false while the record
		// is in the free list
		live  atomic.Bool
		index uint32
	}

	chunk [chunkSize]Record
)

var slab struct {
	mu     sync.Mutex
	free   []uint32
	size   uint32
	chunks [maxChunks]atomic.Pointer[chunk]
}

var (
	violations atomic.Uint64

	// testHookNotify runs after a notifier has locked a record, before it
	// touches anything else
	testHookNotify func(r *Record)
)

// Acquire returns a record exclusively owned by the caller, who must call
// Release once no other goroutine can reach it.
func Acquire() *Record {
	for {
		slab.mu.Lock()
		if n := len(slab.free); n != 0 {
			index := slab.free[n-1]
			slab.free = slab.free[:n-1]
			slab.mu.Unlock()
			return lookupIndex(index).reset()
		}
		if slab.size < maxRecords {
			index := slab.size
			if index&(chunkSize-1) == 0 {
				c := new(chunk)
				for i := range c {
					c[i].index = index + uint32(i)
					c[i].signal = make(chan struct{}, 1)
				}
				slab.chunks[index>>chunkBits].Store(c)
			}
			slab.size++
			slab.mu.Unlock()
			return lookupIndex(index).reset()
		}
		slab.mu.Unlock()
		// every record is in use
		runtime.Gosched()
	}
}

// Lookup resolves a reference previously returned by Record.Ref.
func Lookup(ref uintptr) *Record {
	if ref == 0 || ref > maxRecords {
		panic(`handoff: invalid record reference`)
	}
	return lookupIndex(uint32(ref - 1))
}

// Violations returns the number of times a notifier found a record that had
// already been released. It is always zero unless the protocol is broken.
func Violations() uint64 { return violations.Load() }

func lookupIndex(index uint32) *Record {
	return &slab.chunks[index>>chunkBits].Load()[index&(chunkSize-1)]
}

// Ref is the non-zero value published into a word to refer to x.
func (x *Record) Ref() uintptr { return uintptr(x.index) + 1 }

// Release returns the record to the slab. The caller must not hold its mutex.
func (x *Record) Release() {
	x.live.Store(false)
	slab.mu.Lock()
	slab.free = append(slab.free, x.index)
	slab.mu.Unlock()
}

func (x *Record) reset() *Record {
	x.next = 0
	x.consumed = false
	select {
	case <-x.signal:
	default:
	}
	x.live.Store(true)
	return x
}

// wait blocks until signalled. The caller must hold mu, which is released
// for the duration.
func (x *Record) wait() {
	x.mu.Unlock()
	<-x.signal
	x.mu.Lock()
}

// waitTimeout is wait, bounded by d.
func (x *Record) waitTimeout(d time.Duration) {
	x.mu.Unlock()
	if x.timer == nil {
		x.timer = time.NewTimer(d)
	} else {
		x.timer.Reset(d)
	}
	select {
	case <-x.signal:
		x.timer.Stop()
	case <-x.timer.C:
	}
	x.mu.Lock()
}

// lockForNotify is the notifier's entry into the critical section.
func (x *Record) lockForNotify() {
	x.mu.Lock()
	if testHookNotify != nil {
		testHookNotify(x)
	}
	if !x.live.Load() {
		violations.Add(1)
	}
}

// handBack marks the record consumed and signals the owner. The caller must
// hold mu.
func (x *Record) handBack() {
	x.consumed = true
	select {
	case x.signal <- struct{}{}:
	default:
	}
}
