package pledge

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrSubmitting is returned for submissions and structural edits
	// attempted while a submission is in flight.
	ErrSubmitting = errors.New("submission in progress")

	// ErrInvalid is returned when submitting a form that fails validation.
	ErrInvalid = errors.New("form is invalid")

	// ErrUnknownPath is returned for paths that do not name a form field.
	ErrUnknownPath = errors.New("unknown field path")

	// ErrIndexOutOfRange is returned for donation indexes past the list.
	ErrIndexOutOfRange = errors.New("donation index out of range")

	// ErrTypeMismatch is returned when a value cannot be stored in a field.
	ErrTypeMismatch = errors.New("value type does not match field")
)

// FieldError is a validation failure on a top-level field.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ItemError is a validation failure on one field of one donation row.
// Key is the row's stable key, Index its position when validated.
type ItemError struct {
	Index   int
	Key     string
	Field   string
	Rule    string
	Message string
}

// Path returns the location of the failing field.
func (e *ItemError) Path() Path {
	return ItemPath(e.Index, e.Field)
}

func (e *ItemError) Error() string {
	return e.Path().String() + ": " + e.Message
}

// AggregateError is a validation failure of the donations list as a whole:
// too few rows, or percentages that do not add up.
type AggregateError struct {
	Field   string
	Rule    string
	Sum     float64
	Count   int
	Message string
}

func (e *AggregateError) Error() string {
	return e.Field + ": " + e.Message
}

// Aggregate rule names.
const (
	RuleMinItems = "min"
	RuleSum      = "sum"
)

// Errors is the outcome of validating the whole form. The zero value means
// the form is valid.
type Errors struct {
	Fields    []*FieldError
	Items     []*ItemError
	Aggregate *AggregateError
}

// Len counts every error, the aggregate included.
func (e Errors) Len() int {
	n := len(e.Fields) + len(e.Items)
	if e.Aggregate != nil {
		n++
	}
	return n
}

// Empty reports whether there are no errors at all.
func (e Errors) Empty() bool {
	return e.Len() == 0
}

// Field returns the error on a top-level field, or nil.
func (e Errors) Field(name string) *FieldError {
	for _, fe := range e.Fields {
		if fe.Field == name {
			return fe
		}
	}
	return nil
}

// Item returns the error on a field of the donation at index, or nil.
func (e Errors) Item(index int, field string) *ItemError {
	for _, ie := range e.Items {
		if ie.Index == index && ie.Field == field {
			return ie
		}
	}
	return nil
}

// ItemsFor returns the errors of the row with the given key.
func (e Errors) ItemsFor(key string) []*ItemError {
	var out []*ItemError
	for _, ie := range e.Items {
		if ie.Key == key {
			out = append(out, ie)
		}
	}
	return out
}

// Lookup returns the message at a path. The path "donations" yields the
// aggregate error only; row errors need an indexed path.
func (e Errors) Lookup(path string) (string, bool) {
	p, err := ParsePath(path)
	if err != nil {
		return "", false
	}
	switch {
	case p.Field == FieldDonations && !p.IsItem():
		if e.Aggregate != nil {
			return e.Aggregate.Message, true
		}
	case p.IsItem():
		if ie := e.Item(p.Index, p.Sub); ie != nil {
			return ie.Message, true
		}
	default:
		if fe := e.Field(p.Field); fe != nil {
			return fe.Message, true
		}
	}
	return "", false
}

// Map flattens the errors to path -> message.
func (e Errors) Map() map[string]string {
	m := make(map[string]string, e.Len())
	for _, fe := range e.Fields {
		m[fe.Field] = fe.Message
	}
	for _, ie := range e.Items {
		m[ie.Path().String()] = ie.Message
	}
	if e.Aggregate != nil {
		m[e.Aggregate.Field] = e.Aggregate.Message
	}
	return m
}

// Err joins every error, or returns nil when there are none.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	errs := make([]error, 0, e.Len())
	for _, fe := range e.Fields {
		errs = append(errs, fe)
	}
	for _, ie := range e.Items {
		errs = append(errs, ie)
	}
	if e.Aggregate != nil {
		errs = append(errs, e.Aggregate)
	}
	return errors.Join(errs...)
}

// MarshalJSON encodes the flattened path -> message map.
func (e Errors) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Map())
}

// MarshalYAML encodes the flattened path -> message map.
func (e Errors) MarshalYAML() (any, error) {
	return e.Map(), nil
}

func (e Errors) String() string {
	if e.Empty() {
		return "no errors"
	}
	return fmt.Sprintf("%d error(s): %v", e.Len(), e.Err())
}
