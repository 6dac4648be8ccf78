package pledge

import "github.com/zoobzio/capitan"

// Form editing signals.
var (
	// FieldChanged is emitted when a field value is stored.
	FieldChanged = capitan.NewSignal(
		"pledge.form.field.changed",
		"Field value changed",
	)

	// FieldRejected is emitted when a value cannot be stored at a path.
	FieldRejected = capitan.NewSignal(
		"pledge.form.field.rejected",
		"Field value rejected",
	)

	// FieldTouched is emitted the first time a field is marked touched.
	FieldTouched = capitan.NewSignal(
		"pledge.form.field.touched",
		"Field touched",
	)

	// DonationAppended is emitted when a donation row is added.
	DonationAppended = capitan.NewSignal(
		"pledge.form.donation.appended",
		"Donation row appended",
	)

	// DonationRemoved is emitted when a donation row is removed.
	DonationRemoved = capitan.NewSignal(
		"pledge.form.donation.removed",
		"Donation row removed",
	)

	// FormLoaded is emitted when all values are replaced at once.
	FormLoaded = capitan.NewSignal(
		"pledge.form.loaded",
		"Form values replaced",
	)

	// FormValidated is emitted after every revalidation.
	FormValidated = capitan.NewSignal(
		"pledge.form.validated",
		"Form revalidated",
	)
)

// Submission signals.
var (
	// SubmitStateChanged is emitted when the controller changes state.
	SubmitStateChanged = capitan.NewSignal(
		"pledge.submit.state.changed",
		"Submission state transition",
	)

	// SubmitStarted is emitted when a submission enters the pipeline.
	SubmitStarted = capitan.NewSignal(
		"pledge.submit.started",
		"Submission started",
	)

	// SubmitSucceeded is emitted when a submission completes.
	SubmitSucceeded = capitan.NewSignal(
		"pledge.submit.succeeded",
		"Submission completed",
	)

	// SubmitFailed is emitted when the pipeline or the delay fails.
	SubmitFailed = capitan.NewSignal(
		"pledge.submit.failed",
		"Submission failed",
	)

	// SubmitRejected is emitted when a submission is refused before it starts.
	SubmitRejected = capitan.NewSignal(
		"pledge.submit.rejected",
		"Submission rejected",
	)
)

// Draft source signals.
var (
	// DraftReceived is emitted when a watcher delivers raw draft bytes.
	DraftReceived = capitan.NewSignal(
		"pledge.draft.received",
		"Draft received from watcher",
	)

	// DraftDecodeFailed is emitted when a draft cannot be decoded.
	DraftDecodeFailed = capitan.NewSignal(
		"pledge.draft.decode.failed",
		"Draft could not be decoded",
	)
)
