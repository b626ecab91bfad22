package submission

// State is the lifecycle position of a Workflow. Transitions only move
// forward within a run: Idle → AwaitingAd → Submitting → (Completed | Idle).
// Completed is terminal.
type State int

const (
	StateIdle State = iota
	StateAwaitingAd
	StateSubmitting
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAd:
		return "awaiting-ad"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Outcome is what Start reports to its caller.
type Outcome int

const (
	// OutcomeIgnored means Start was a no-op: a run was already in flight
	// or the draft was already accepted.
	OutcomeIgnored Outcome = iota

	// OutcomeAccepted means the transport accepted the draft. The caller
	// should disable further attempts.
	OutcomeAccepted

	// OutcomeNotAccepted means the transport rejected the draft or failed.
	// The caller may start again.
	OutcomeNotAccepted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeNotAccepted:
		return "not-accepted"
	default:
		return "unknown"
	}
}

// AdResult records how the ad phase ended. It never affects control flow.
type AdResult int

const (
	AdShown AdResult = iota
	AdUnavailable
)

func (a AdResult) String() string {
	if a == AdShown {
		return "shown"
	}
	return "unavailable"
}
