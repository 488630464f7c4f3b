// Package once provides Cell, a value that is initialised at most once, and
// that goroutines can wait on while the initialisation runs.
package once

import (
	"github.com/joeycumines/go-parking"
)

const (
	incomplete uint32 = iota
	running
	complete
)

// Cell holds a value of type T, initialised at most once. The zero value is
// an uninitialised cell. A Cell must not be copied after first use.
type Cell[T any] struct {
	state parking.Word
	value T
}

// Get returns the value, and true, if the cell has been initialised.
func (x *Cell[T]) Get() (value T, ok bool) {
	if x.state.Payload() == complete {
		return x.value, true
	}
	return value, false
}

// GetOrInit returns the value of the cell, calling fn to initialise it, if no
// other call has. Concurrent callers block until the value is available.
//
// If fn panics the cell remains uninitialised, and one of the blocked callers
// (or the next caller) will try again.
func (x *Cell[T]) GetOrInit(fn func() T) T {
	value, _ := x.getOrInit(fn)
	return value
}

// Set initialises the cell to value, reporting false if it was already
// initialised (or being initialised) by another call.
func (x *Cell[T]) Set(value T) bool {
	_, ok := x.getOrInit(func() T { return value })
	return ok
}

func (x *Cell[T]) getOrInit(fn func() T) (T, bool) {
	for {
		switch x.state.Payload() {
		case complete:
			return x.value, false
		case incomplete:
			if parking.TryStoreAndWake(&x.state, incomplete, running) {
				x.init(fn)
				return x.value, true
			}
		default:
			parking.CompareAndWait(&x.state, running)
		}
	}
}

func (x *Cell[T]) init(fn func() T) {
	done := false
	defer func() {
		if !done {
			parking.StoreAndWake(&x.state, incomplete)
		}
	}()
	x.value = fn()
	done = true
	parking.StoreAndWake(&x.state, complete)
}
