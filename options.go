package pledge

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Pipeline identities.
var (
	submitterID  = pipz.NewIdentity("pledge:submitter", "Hands the form snapshot to the submitter")
	timeoutID    = pipz.NewIdentity("pledge:timeout", "Bounds the time a submission may take")
	middlewareID = pipz.NewIdentity("pledge:middleware", "Runs middleware before the submitter")
	retryID      = pipz.NewIdentity("pledge:retry", "Retries a failed submission")
	backoffID    = pipz.NewIdentity("pledge:backoff", "Retries a failed submission with exponential backoff")
	fallbackID   = pipz.NewIdentity("pledge:fallback", "Tries alternate submitters on failure")
	breakerID    = pipz.NewIdentity("pledge:circuit-breaker", "Stops calling a failing submitter")
	handlerID    = pipz.NewIdentity("pledge:error-handler", "Observes failed submissions")
	limiterID    = pipz.NewIdentity("pledge:rate-limit", "Throttles submissions")
)

// Option configures the submission pipeline of a Store. Pipeline options
// wrap the submitter with middleware such as timeouts or logging.
//
// Instance configuration (clock, delay, schema, etc.) is handled via
// chainable methods on the Store.
type Option func(pipz.Chainable[*Submission]) pipz.Chainable[*Submission]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline(terminal pipz.Chainable[*Submission], opts []Option) pipz.Chainable[*Submission] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithTimeout bounds the pipeline. A submitter that does not return within d
// fails the submission and the store returns to idle. The simulated delay
// that follows the pipeline is not covered.
func WithTimeout(d time.Duration) Option {
	return func(p pipz.Chainable[*Submission]) pipz.Chainable[*Submission] {
		return pipz.NewTimeout(timeoutID, p, d)
	}
}

// WithRetry retries a failed pipeline up to maxAttempts times without delay.
func WithRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[*Submission]) pipz.Chainable[*Submission] {
		return pipz.NewRetry(retryID, p, maxAttempts)
	}
}

// WithBackoff retries a failed pipeline up to maxAttempts times, doubling
// the wait between attempts starting at baseDelay.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(p pipz.Chainable[*Submission]) pipz.Chainable[*Submission] {
		return pipz.NewBackoff(backoffID, p, maxAttempts, baseDelay)
	}
}

// WithFallback tries the given processors in order when the pipeline fails.
// The first one to succeed completes the submission.
func WithFallback(fallbacks ...pipz.Chainable[*Submission]) Option {
	return func(p pipz.Chainable[*Submission]) pipz.Chainable[*Submission] {
		all := make([]pipz.Chainable[*Submission], 0, len(fallbacks)+1)
		all = append(all, p)
		all = append(all, fallbacks...)
		return pipz.NewFallback(fallbackID, all...)
	}
}

// WithCircuitBreaker stops calling the pipeline after failures consecutive
// failures and lets a trial submission through after recovery.
func WithCircuitBreaker(failures int, recovery time.Duration) Option {
	return func(p pipz.Chainable[*Submission]) pipz.Chainable[*Submission] {
		return pipz.NewCircuitBreaker(breakerID, p, failures, recovery)
	}
}

// WithErrorHandler runs handler with the details of every failed
// submission. The submission still fails with the original error.
//
// Example:
//
//	handler := pipz.Effect(auditID, func(ctx context.Context, err *pipz.Error[*pledge.Submission]) error {
//	    log.Printf("submission from %s failed: %v", err.InputData.Values.FirstName, err.Err)
//	    return nil
//	})
//	store := pledge.New(submit, pledge.WithErrorHandler(handler))
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Submission]]) Option {
	return func(p pipz.Chainable[*Submission]) pipz.Chainable[*Submission] {
		return pipz.NewHandle(handlerID, p, handler)
	}
}

// WithRateLimit throttles submissions to rps per second with the given
// burst. Submissions over the limit wait for capacity.
func WithRateLimit(rps float64, burst int) Option {
	return func(p pipz.Chainable[*Submission]) pipz.Chainable[*Submission] {
		return pipz.NewRateLimiter[*Submission](limiterID, rps, burst, p)
	}
}

// WithMiddleware runs processors in order before the submitter.
//
// Example:
//
//	store := pledge.New(submit,
//	    pledge.WithMiddleware(
//	        pledge.UseEffect("audit", auditFn),
//	    ),
//	    pledge.WithTimeout(10*time.Second),
//	)
func WithMiddleware(processors ...pipz.Chainable[*Submission]) Option {
	return func(p pipz.Chainable[*Submission]) pipz.Chainable[*Submission] {
		all := make([]pipz.Chainable[*Submission], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence(middlewareID, all...)
	}
}

// UseEffect creates a processor that observes the submission without
// changing it. A returned error aborts the submission.
func UseEffect(name string, fn func(context.Context, *Submission) error) pipz.Chainable[*Submission] {
	return pipz.Effect(pipz.NewIdentity(name, "submission effect"), fn)
}

// UseApply creates a processor that may rewrite the submission before the
// submitter sees it, for example to trim whitespace from names.
func UseApply(name string, fn func(context.Context, *Submission) (*Submission, error)) pipz.Chainable[*Submission] {
	return pipz.Apply(pipz.NewIdentity(name, "submission transform"), fn)
}
