package domain

type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "IDLE"
	CheckoutStateSubmitting CheckoutState = "SUBMITTING"
	CheckoutStateSucceeded  CheckoutState = "SUCCEEDED"
	CheckoutStateFailed     CheckoutState = "FAILED"
)

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateSucceeded || s == CheckoutStateFailed
}

// CanTransitionTo reports whether the state machine allows moving from s
// to next. A new submission may start from Idle or from either terminal
// state, but never while another submission is in flight.
func CanTransitionTo(s, next CheckoutState) bool {
	switch next {
	case CheckoutStateSubmitting:
		return s != CheckoutStateSubmitting
	case CheckoutStateSucceeded, CheckoutStateFailed:
		return s == CheckoutStateSubmitting
	case CheckoutStateIdle:
		// aborting a submission before any remote call resets to Idle
		return true
	default:
		return false
	}
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}
