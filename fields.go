package pledge

import "github.com/zoobzio/capitan"

// Field keys for form events.
var (
	// KeyPath is the field path an event refers to.
	KeyPath = capitan.NewStringKey("path")

	// KeyIndex is the donation row an event refers to.
	KeyIndex = capitan.NewIntKey("index")

	// KeyCount is the number of donation rows after the event.
	KeyCount = capitan.NewIntKey("count")

	// KeyValid is "true" or "false" depending on form validity.
	KeyValid = capitan.NewStringKey("valid")

	// KeyErrorCount is the number of validation errors.
	KeyErrorCount = capitan.NewIntKey("error_count")

	// KeySum is the current percentage sum, formatted as entered.
	KeySum = capitan.NewStringKey("sum")

	// KeyOldState is the submission state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the submission state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyReason explains why a submission was rejected.
	KeyReason = capitan.NewStringKey("reason")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDuration is how long a submission took.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyDebounce is the configured draft debounce.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
