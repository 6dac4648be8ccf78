package pledge

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key form events.
type MetricsProvider interface {
	// OnStateChange is called when the submission controller changes state.
	OnStateChange(from, to SubmitState)

	// OnValidation is called after every revalidation.
	OnValidation(valid bool, errorCount int)

	// OnEdit is called for every accepted edit. Kind is "field", "append",
	// "remove" or "load".
	OnEdit(kind string)

	// OnSubmitSuccess is called when a submission completes.
	OnSubmitSuccess(duration time.Duration)

	// OnSubmitFailure is called when a submission is rejected or fails.
	// Stage is "busy", "validate", "pipeline" or "delay".
	OnSubmitFailure(stage string, duration time.Duration)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ SubmitState)            {}
func (NoOpMetricsProvider) OnValidation(_ bool, _ int)                {}
func (NoOpMetricsProvider) OnEdit(_ string)                           {}
func (NoOpMetricsProvider) OnSubmitSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnSubmitFailure(_ string, _ time.Duration) {}
