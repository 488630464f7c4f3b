package parking

// MaxPayload is the largest payload accepted by every backend this build may
// select.
const MaxPayload = 1<<PayloadBits - 1

// Wait blocks until the generation of w differs from expectedGeneration. It
// returns immediately if it already does, so callers should read Generation
// before checking the condition they wait for.
func Wait(w *Word, expectedGeneration uint32) { CompareAndWait(w, expectedGeneration) }

// NotifyAll increments the generation of w, wrapping to 0 after the largest
// payload, and wakes every goroutine blocked in Wait or CompareAndWait.
func NotifyAll(w *Word) { platform{}.notifyAll(w) }

// Generation returns the current generation of w.
func Generation(w *Word) uint32 { return platform{}.payload(w) }

// CompareAndWait blocks while the payload of w equals expected, which must
// not exceed MaxPayload. There is no timeout variant.
func CompareAndWait(w *Word, expected uint32) {
	b := platform{}
	checkPayload(b, expected)
	b.compareAndWait(w, expected)
}

// StoreAndWake sets the payload of w to value, which must not exceed
// MaxPayload, and wakes every goroutine blocked in Wait or CompareAndWait.
// Waiters that still see their expected value block again.
func StoreAndWake(w *Word, value uint32) {
	b := platform{}
	checkPayload(b, value)
	b.storeAndWake(w, value)
}

// TryStoreAndWake is StoreAndWake, but only if the payload of w equals
// expected. It reports whether the payload was stored. Both values must not
// exceed MaxPayload.
func TryStoreAndWake(w *Word, expected, value uint32) bool {
	b := platform{}
	checkPayload(b, expected)
	checkPayload(b, value)
	return b.tryStoreAndWake(w, expected, value)
}

func checkPayload(b backend, v uint32) {
	if uint64(v)>>b.payloadBits() != 0 {
		panic(`parking: payload out of range`)
	}
}
