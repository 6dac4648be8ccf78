package main

import (
	"context"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pledge"
	"go.uber.org/zap"
)

// hookSignals forwards store events to the logger.
func hookSignals(log *zap.Logger) {
	capitan.Hook(pledge.FormValidated, func(_ context.Context, e *capitan.Event) {
		valid, _ := pledge.KeyValid.From(e)
		count, _ := pledge.KeyErrorCount.From(e)
		sum, _ := pledge.KeySum.From(e)
		log.Debug("form validated",
			zap.String("valid", valid),
			zap.Int("errors", count),
			zap.String("sum", sum),
		)
	})

	capitan.Hook(pledge.FieldRejected, func(_ context.Context, e *capitan.Event) {
		path, _ := pledge.KeyPath.From(e)
		msg, _ := pledge.KeyError.From(e)
		log.Warn("value rejected", zap.String("path", path), zap.String("error", msg))
	})

	capitan.Hook(pledge.DraftDecodeFailed, func(_ context.Context, e *capitan.Event) {
		msg, _ := pledge.KeyError.From(e)
		log.Warn("draft ignored", zap.String("error", msg))
	})

	capitan.Hook(pledge.SubmitStateChanged, func(_ context.Context, e *capitan.Event) {
		from, _ := pledge.KeyOldState.From(e)
		to, _ := pledge.KeyNewState.From(e)
		log.Info("submission state", zap.String("from", from), zap.String("to", to))
	})

	capitan.Hook(pledge.SubmitRejected, func(_ context.Context, e *capitan.Event) {
		reason, _ := pledge.KeyReason.From(e)
		log.Warn("submission refused", zap.String("reason", reason))
	})

	capitan.Hook(pledge.SubmitSucceeded, func(_ context.Context, e *capitan.Event) {
		d, _ := pledge.KeyDuration.From(e)
		log.Info("submission completed", zap.Duration("duration", d))
	})

	capitan.Hook(pledge.SubmitFailed, func(_ context.Context, e *capitan.Event) {
		msg, _ := pledge.KeyError.From(e)
		log.Error("submission failed", zap.String("error", msg))
	})
}
