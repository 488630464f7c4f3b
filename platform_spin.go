//go:build parking_spin

package parking

type platform = spinBackend

// PayloadBits is the number of usable payload bits, guaranteed by every
// backend this build may select.
const PayloadBits = futexPayloadBits
