package pledge

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

const (
	// DefaultSubmitDelay is how long a submission stays in flight after the
	// submitter returns.
	DefaultSubmitDelay = 3 * time.Second

	// DefaultDebounce is the default debounce duration for draft changes.
	DefaultDebounce = 100 * time.Millisecond
)

// touchKey identifies a touched field. Row fields are keyed by the row's
// stable key so the mark moves with the row when rows before it are removed.
type touchKey struct {
	row   string
	field string
}

// Store holds the state of one donation form: current values, validation
// errors, touched fields and the submission state. Every edit revalidates
// the whole form before returning.
type Store struct {
	pipeline pipz.Chainable[*Submission]
	schema   *Schema
	clock    clockz.Clock
	delay    time.Duration
	debounce time.Duration
	metrics  MetricsProvider
	failures *failureRing

	mu        sync.Mutex
	initial   Values
	values    Values
	errors    Errors
	touched   map[touchKey]bool
	state     SubmitState
	lastError error
}

// New creates a Store holding the initial form values (see NewValues).
//
// The submitter receives a snapshot of the form on every accepted
// submission; nil accepts every submission without doing anything. Pipeline
// options (With*) wrap the submitter. Instance configuration uses chainable
// methods.
//
// Example:
//
//	store := pledge.New(
//	    func(ctx context.Context, v pledge.Values) error {
//	        log.Printf("submitted: %+v", v)
//	        return nil
//	    },
//	    pledge.WithTimeout(10*time.Second),
//	).Delay(time.Second)
func New(submitter Submitter, opts ...Option) *Store {
	if submitter == nil {
		submitter = func(context.Context, Values) error { return nil }
	}
	terminal := pipz.Effect(submitterID, func(ctx context.Context, sub *Submission) error {
		return submitter(ctx, sub.Values)
	})

	s := &Store{
		pipeline: buildPipeline(terminal, opts),
		schema:   DefaultSchema(),
		clock:    clockz.RealClock,
		delay:    DefaultSubmitDelay,
		debounce: DefaultDebounce,
		touched:  make(map[touchKey]bool),
	}
	s.initial = NewValues()
	s.values = s.initial.Clone()
	s.errors = Validate(s.schema, s.values)
	return s
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Schema replaces the validation rules and revalidates the current values.
func (s *Store) Schema(schema *Schema) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = schema
	s.errors = Validate(s.schema, s.values)
	return s
}

// Initial replaces both the initial and the current values. Dirty() compares
// against these values.
func (s *Store) Initial(v Values) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	v = v.Clone()
	v.ensureKeys()
	s.initial = v
	s.values = v.Clone()
	s.touched = make(map[touchKey]bool)
	s.errors = Validate(s.schema, s.values)
	return s
}

// Clock sets a custom clock for the submit delay and draft debouncing.
// Use this with clockz.FakeClock for deterministic testing.
func (s *Store) Clock(clock clockz.Clock) *Store {
	s.clock = clock
	return s
}

// Delay sets how long a submission stays in flight after the submitter
// returns. Zero completes as soon as the submitter does.
// Default: 3s.
func (s *Store) Delay(d time.Duration) *Store {
	s.delay = d
	return s
}

// Debounce sets the debounce duration used by Follow. Drafts arriving within
// this duration are coalesced into a single load. Zero loads every draft.
// Default: 100ms.
func (s *Store) Debounce(d time.Duration) *Store {
	s.debounce = d
	return s
}

// Metrics sets a metrics provider for observability integration.
func (s *Store) Metrics(provider MetricsProvider) *Store {
	s.metrics = provider
	return s
}

// FailureHistory sets how many failed submissions to retain. The history
// is cleared by the next successful submission.
// Default: 0, only LastError is kept.
func (s *Store) FailureHistory(n int) *Store {
	s.failures = newFailureRing(n)
	return s
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// Values returns a copy of the current form values.
func (s *Store) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Errors returns the validation errors of the current values.
func (s *Store) Errors() Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// IsValid reports whether the current values pass validation. It does not
// depend on the submission state.
func (s *Store) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.Empty()
}

// State returns the submission state.
func (s *Store) State() SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsSubmitting reports whether a submission is in flight.
func (s *Store) IsSubmitting() bool {
	return s.State() == StateSubmitting
}

// LastError returns the error of the last submission, or nil if it
// succeeded or none has run.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Failures returns the failed submissions since the last success, oldest
// first. It is nil unless FailureHistory was configured.
func (s *Store) Failures() []Failure {
	return s.failures.all()
}

// Dirty reports whether the values differ from the initial values.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.values.Equal(s.initial)
}

// Get returns the value at path: a string, bool, Number, Donation or
// []Donation depending on the field.
func (s *Store) Get(path string) (any, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.get(p)
}

// Touched reports whether the field at path has been marked touched.
func (s *Store) Touched(path string) bool {
	p, err := ParsePath(path)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k, err := s.touchKeyLocked(p)
	if err != nil {
		return false
	}
	return s.touched[k]
}

// -----------------------------------------------------------------------------
// Edits
// -----------------------------------------------------------------------------

// SetFieldValue stores value at path and revalidates.
//
// Strings, bools and numbers are accepted; numeric fields also accept
// strings, and keep text that is not a number so it can be reported as a
// field error. An unknown path, an index past the list or a value of the
// wrong kind is returned as an error and leaves the form untouched.
func (s *Store) SetFieldValue(ctx context.Context, path string, value any) error {
	p, err := ParsePath(path)
	if err != nil {
		s.reject(ctx, path, err)
		return err
	}

	s.mu.Lock()
	if p.Field == FieldDonations && !p.IsItem() && s.state == StateSubmitting {
		s.mu.Unlock()
		s.reject(ctx, path, ErrSubmitting)
		return ErrSubmitting
	}
	next := s.values.Clone()
	if err := next.set(p, value); err != nil {
		s.mu.Unlock()
		s.reject(ctx, path, err)
		return err
	}
	res := s.applyLocked(next)
	s.mu.Unlock()

	capitan.Emit(ctx, FieldChanged, KeyPath.Field(p.String()))
	s.edited(ctx, "field", res)
	return nil
}

// Touch marks the field at path as touched, as a renderer does when an
// input loses focus.
func (s *Store) Touch(ctx context.Context, path string) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	k, err := s.touchKeyLocked(p)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	already := s.touched[k]
	s.touched[k] = true
	s.mu.Unlock()

	if !already {
		capitan.Emit(ctx, FieldTouched, KeyPath.Field(p.String()))
	}
	return nil
}

// Load replaces every value at once and revalidates. Rows without a key get
// one. Loading is a structural edit and is rejected while submitting.
func (s *Store) Load(ctx context.Context, v Values) error {
	next := v.Clone()
	next.ensureKeys()

	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmitting
	}
	res := s.applyLocked(next)
	s.mu.Unlock()

	capitan.Emit(ctx, FormLoaded, KeyCount.Field(len(next.Donations)))
	s.edited(ctx, "load", res)
	return nil
}

// Reset restores the initial values and clears every touched mark.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmitting
	}
	s.touched = make(map[touchKey]bool)
	res := s.applyLocked(s.initial.Clone())
	count := len(s.values.Donations)
	s.mu.Unlock()

	capitan.Emit(ctx, FormLoaded, KeyCount.Field(count))
	s.edited(ctx, "load", res)
	return nil
}

// validation summarizes a revalidation for signals and metrics.
type validation struct {
	valid  bool
	errors int
	sum    float64
}

// applyLocked stores next, drops touched marks of rows that no longer exist
// and revalidates. Caller holds s.mu.
func (s *Store) applyLocked(next Values) validation {
	s.values = next
	for k := range s.touched {
		if k.row != "" && next.indexOf(k.row) < 0 {
			delete(s.touched, k)
		}
	}
	s.errors = Validate(s.schema, next)
	return validation{
		valid:  s.errors.Empty(),
		errors: s.errors.Len(),
		sum:    next.Sum(),
	}
}

// edited reports an accepted edit and the revalidation that followed it.
func (s *Store) edited(ctx context.Context, kind string, res validation) {
	capitan.Emit(ctx, FormValidated,
		KeyValid.Field(strconv.FormatBool(res.valid)),
		KeyErrorCount.Field(res.errors),
		KeySum.Field(formatFloat(res.sum)),
	)
	if s.metrics != nil {
		s.metrics.OnEdit(kind)
		s.metrics.OnValidation(res.valid, res.errors)
	}
}

func (s *Store) reject(ctx context.Context, path string, err error) {
	capitan.Emit(ctx, FieldRejected,
		KeyPath.Field(path),
		KeyError.Field(err.Error()),
	)
}

// touchKeyLocked resolves a path to the key its touched mark is stored
// under. Caller holds s.mu.
func (s *Store) touchKeyLocked(p Path) (touchKey, error) {
	if !p.IsItem() {
		return touchKey{field: p.Field}, nil
	}
	if p.Index >= len(s.values.Donations) {
		return touchKey{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, p.Index, len(s.values.Donations))
	}
	return touchKey{row: s.values.Donations[p.Index].Key, field: p.Sub}, nil
}

// touchAllLocked marks every field touched. Caller holds s.mu.
func (s *Store) touchAllLocked() {
	for _, f := range []string{FieldFirstName, FieldSecondName, FieldOver18,
		FieldDonationsAmount, FieldTermsAndConditions, FieldDonations} {
		s.touched[touchKey{field: f}] = true
	}
	for _, d := range s.values.Donations {
		s.touched[touchKey{row: d.Key, field: FieldInstitution}] = true
		s.touched[touchKey{row: d.Key, field: FieldPercentage}] = true
	}
}

// -----------------------------------------------------------------------------
// Path access on Values
// -----------------------------------------------------------------------------

func (v Values) get(p Path) (any, error) {
	switch p.Field {
	case FieldFirstName:
		return v.FirstName, nil
	case FieldSecondName:
		return v.SecondName, nil
	case FieldOver18:
		return v.Over18, nil
	case FieldDonationsAmount:
		return v.DonationsAmount, nil
	case FieldTermsAndConditions:
		return v.TermsAndConditions, nil
	case FieldDonations:
		if !p.IsItem() {
			return v.Clone().Donations, nil
		}
		if p.Index >= len(v.Donations) {
			return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, p.Index, len(v.Donations))
		}
		d := v.Donations[p.Index]
		switch p.Sub {
		case FieldInstitution:
			return d.Institution, nil
		case FieldPercentage:
			return d.Percentage, nil
		default:
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPath, p.String())
}

func (v *Values) set(p Path, value any) error {
	switch p.Field {
	case FieldFirstName:
		return setString(&v.FirstName, p, value)
	case FieldSecondName:
		return setString(&v.SecondName, p, value)
	case FieldOver18:
		return setBool(&v.Over18, p, value)
	case FieldDonationsAmount:
		return setNumber(&v.DonationsAmount, p, value)
	case FieldTermsAndConditions:
		return setBool(&v.TermsAndConditions, p, value)
	case FieldDonations:
		if !p.IsItem() {
			ds, ok := value.([]Donation)
			if !ok {
				return mismatch(p, value)
			}
			v.Donations = append([]Donation(nil), ds...)
			v.ensureKeys()
			return nil
		}
		if p.Index >= len(v.Donations) {
			return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, p.Index, len(v.Donations))
		}
		row := &v.Donations[p.Index]
		switch p.Sub {
		case FieldInstitution:
			return setString(&row.Institution, p, value)
		case FieldPercentage:
			return setNumber(&row.Percentage, p, value)
		default:
			d, ok := value.(Donation)
			if !ok {
				return mismatch(p, value)
			}
			d.Key = row.Key
			*row = d
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPath, p.String())
}

func setString(dst *string, p Path, value any) error {
	switch x := value.(type) {
	case string:
		*dst = x
	case []byte:
		*dst = string(x)
	default:
		return mismatch(p, value)
	}
	return nil
}

func setBool(dst *bool, p Path, value any) error {
	switch x := value.(type) {
	case bool:
		*dst = x
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return mismatch(p, value)
		}
		*dst = b
	default:
		return mismatch(p, value)
	}
	return nil
}

func setNumber(dst *Number, p Path, value any) error {
	switch x := value.(type) {
	case Number:
		*dst = x
	case float64:
		*dst = fromFloat(x)
	case float32:
		*dst = fromFloat(float64(x))
	case int:
		*dst = Num(float64(x))
	case int32:
		*dst = Num(float64(x))
	case int64:
		*dst = Num(float64(x))
	case string:
		*dst = ParseNumber(x)
	case json.Number:
		*dst = ParseNumber(x.String())
	case nil:
		*dst = Number{}
	default:
		return mismatch(p, value)
	}
	return nil
}

func fromFloat(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{Raw: formatFloat(f)}
	}
	return Num(f)
}

func mismatch(p Path, value any) error {
	return fmt.Errorf("%w: %s cannot hold %T", ErrTypeMismatch, p, value)
}
