package pledge

// SubmitState is the state of the submission controller.
type SubmitState int32

const (
	// StateIdle accepts a new submission once the form is valid.
	StateIdle SubmitState = iota

	// StateSubmitting means a submission is in flight. New submissions and
	// structural edits to the donations list are rejected.
	StateSubmitting
)

// String returns the string representation of the state.
func (s SubmitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}
