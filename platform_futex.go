//go:build !parking_spin && !parking_handoff && (linux || freebsd || darwin || dragonfly)

package parking

type platform = futexBackend

// PayloadBits is the number of usable payload bits, guaranteed by every
// backend this build may select.
const PayloadBits = futexPayloadBits
