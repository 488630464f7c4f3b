//go:build !parking_spin && (parking_handoff || !(linux || freebsd || darwin || dragonfly || windows))

package parking

import (
	"github.com/joeycumines/go-parking/internal/handoff"
)

type platform = handoffBackend

// PayloadBits is the number of usable payload bits, guaranteed by every
// backend this build may select.
const PayloadBits = handoff.PayloadBits
