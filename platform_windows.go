//go:build !parking_spin && !parking_handoff && windows

package parking

type platform = windowsBackend

// PayloadBits is the number of usable payload bits, guaranteed by every
// backend this build may select. On 32-bit Windows it depends on whether
// keyed events are used, and this is the narrower of the two.
const PayloadBits = windowsPayloadBits
