package parking

// WakeReason is why a park call returned.
type WakeReason uint8

const (
	// Notified means an Unpark notification was consumed.
	Notified WakeReason = iota
	// TimedOut means the timeout elapsed first. Any notification that raced
	// with the timeout stays pending for the next park.
	TimedOut
)

// String returns the name of the reason.
func (x WakeReason) String() string {
	switch x {
	case Notified:
		return `notified`
	case TimedOut:
		return `timed out`
	default:
		return `unknown`
	}
}
