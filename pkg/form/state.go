package form

// State is the lifecycle position of a submission form.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome describes what a successful submission asks the caller to do.
type Outcome int

const (
	OutcomeNone Outcome = iota
	// OutcomeConfirmed means the request was accepted and the report will be emailed.
	OutcomeConfirmed
	// OutcomeRedirect means the caller should navigate to RedirectURL to pay.
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "none"
	}
}
