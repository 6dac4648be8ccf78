package pledge

import (
	"context"
	"time"
)

// Submission carries a snapshot of the form through the submission pipeline.
type Submission struct {
	// Values is a copy of the form taken when the submission started.
	// Later edits to the store do not affect it.
	Values Values

	// StartedAt is when Submit was called, on the store's clock.
	StartedAt time.Time
}

// Submitter receives the submitted form. It is the final stage of the
// submission pipeline.
type Submitter func(ctx context.Context, v Values) error
