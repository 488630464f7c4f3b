//go:build !linux && !freebsd && !darwin && !dragonfly && !windows

package futex

import (
	"time"
)

const name = `none`

func supported() bool { return false }

func wait(*uint32, uint32, time.Duration) (Outcome, error) {
	panic(`futex: not supported on this platform`)
}

func wake(*uint32, bool) error {
	panic(`futex: not supported on this platform`)
}
