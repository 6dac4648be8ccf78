package pledge

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Submit sends a snapshot of the form through the submission pipeline.
//
// Every field is marked touched first, so a renderer shows all errors after
// a submit attempt. The submission is refused with ErrSubmitting while
// another one is in flight and with ErrInvalid (wrapping the validation
// errors) when the form does not validate.
//
// Otherwise the store moves to StateSubmitting, runs the pipeline, then
// waits the configured delay before returning to StateIdle. The store is
// idle again when Submit returns, whatever the outcome. Canceling ctx cuts
// the delay short and fails the submission.
func (s *Store) Submit(ctx context.Context) error {
	start := s.clock.Now()

	s.mu.Lock()
	s.touchAllLocked()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		s.refuse(ctx, "busy", start)
		return ErrSubmitting
	}
	if !s.errors.Empty() {
		err := fmt.Errorf("%w: %w", ErrInvalid, s.errors.Err())
		s.mu.Unlock()
		s.refuse(ctx, "validate", start)
		return err
	}
	s.state = StateSubmitting
	snapshot := s.values.Clone()
	// The timer exists before anyone can observe StateSubmitting.
	var timer clockz.Timer
	if s.delay > 0 {
		timer = s.clock.NewTimer(s.delay)
	}
	s.mu.Unlock()

	s.transition(ctx, StateIdle, StateSubmitting)
	capitan.Emit(ctx, SubmitStarted, KeyCount.Field(len(snapshot.Donations)))

	stage := "pipeline"
	_, err := s.pipeline.Process(ctx, &Submission{Values: snapshot, StartedAt: start})
	if timer != nil {
		if err == nil {
			select {
			case <-timer.C():
			case <-ctx.Done():
				stage, err = "delay", ctx.Err()
			}
		}
		timer.Stop()
	}

	s.mu.Lock()
	s.state = StateIdle
	s.lastError = err
	s.mu.Unlock()
	s.transition(ctx, StateSubmitting, StateIdle)

	elapsed := s.clock.Since(start)
	if err != nil {
		capitan.Emit(ctx, SubmitFailed,
			KeyError.Field(err.Error()),
			KeyDuration.Field(elapsed),
		)
		if s.metrics != nil {
			s.metrics.OnSubmitFailure(stage, elapsed)
		}
		s.failures.push(Failure{At: s.clock.Now(), Stage: stage, Err: err})
		return fmt.Errorf("submit failed: %w", err)
	}

	s.failures.clear()
	capitan.Emit(ctx, SubmitSucceeded, KeyDuration.Field(elapsed))
	if s.metrics != nil {
		s.metrics.OnSubmitSuccess(elapsed)
	}
	return nil
}

// refuse reports a submission that never started.
func (s *Store) refuse(ctx context.Context, reason string, start time.Time) {
	capitan.Emit(ctx, SubmitRejected, KeyReason.Field(reason))
	if s.metrics != nil {
		s.metrics.OnSubmitFailure(reason, s.clock.Since(start))
	}
}

// transition emits a submission state change.
func (s *Store) transition(ctx context.Context, from, to SubmitState) {
	capitan.Emit(ctx, SubmitStateChanged,
		KeyOldState.Field(from.String()),
		KeyNewState.Field(to.String()),
	)
	if s.metrics != nil {
		s.metrics.OnStateChange(from, to)
	}
}
