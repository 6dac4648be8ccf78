// Package pledge provides the state and validation core of a donation
// allocation form.
//
// A user enters personal details and splits a donation across one or more
// institutions whose percentages must add up to exactly 100. The core type
// is Store, which holds the form values, revalidates them on every edit and
// gates submission on validity:
//
//	edit → Field rules → Store → Donations check → Submit
//
// Rendering is left to the caller. A renderer reads Values, Errors,
// IsValid and IsSubmitting, and calls SetFieldValue, Append, RemoveAt and
// Submit in response to user input.
//
// # Validation
//
// Each field has an ordered list of Rules backed by go-playground/validator
// tags; the first failing rule is reported. The donations list is checked
// per row and as a whole:
//
//   - every row needs an institution of 3 to 10 characters and a percentage
//     between 0.01 and 100
//   - the list needs at least one row
//   - the percentages must sum to exactly 100
//
// Errors keeps the three kinds apart: FieldError for top-level fields,
// ItemError for a field of one row, and AggregateError for the list as a
// whole. Lookup resolves paths such as "donations[1].percentage".
//
// # Rows
//
// Every donation row carries a stable Key. Touched marks and row errors are
// associated with the key, so removing a row never leaves state pointing at
// the row that moved into its position.
//
// # Submission
//
// Submit is refused while the form is invalid or while another submission
// is in flight. An accepted submission runs a snapshot of the values through
// a pipeline ending in the Submitter, then stays in flight for a fixed delay
// before the store returns to idle. Adding and removing rows is refused while
// a submission is in flight.
//
// # Example
//
//	store := pledge.New(func(ctx context.Context, v pledge.Values) error {
//	    log.Printf("donating %s to %d institutions", v.DonationsAmount, len(v.Donations))
//	    return nil
//	})
//
//	_ = store.SetFieldValue(ctx, "firstName", "Ana")
//	_ = store.SetFieldValue(ctx, "donations[0].institution", "Red Cross")
//	_ = store.SetFieldValue(ctx, "donations[0].percentage", "100")
//
//	if msg, ok := store.Errors().Lookup("secondName"); ok {
//	    fmt.Println(msg)
//	}
//
//	if err := store.Submit(ctx); errors.Is(err, pledge.ErrInvalid) {
//	    fmt.Println(store.Errors())
//	}
package pledge
