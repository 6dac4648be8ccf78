package pledge

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names as they appear in paths and serialized values.
const (
	FieldFirstName          = "firstName"
	FieldSecondName         = "secondName"
	FieldOver18             = "over18"
	FieldDonationsAmount    = "donationsAmount"
	FieldTermsAndConditions = "termsAndConditions"
	FieldDonations          = "donations"
	FieldInstitution        = "institution"
	FieldPercentage         = "percentage"
)

// Path addresses a location in the form: a scalar field, the donations
// collection, one donation row, or one field of a row.
type Path struct {
	Field string
	// Index is the donation row, or -1 when the path does not name a row.
	Index int
	// Sub is the row field, empty when the path names the whole row.
	Sub string
}

// FieldPath addresses a top-level field.
func FieldPath(field string) Path {
	return Path{Field: field, Index: -1}
}

// ItemPath addresses a field of the donation at index.
func ItemPath(index int, field string) Path {
	return Path{Field: FieldDonations, Index: index, Sub: field}
}

// IsItem reports whether p names a donation row or one of its fields.
func (p Path) IsItem() bool {
	return p.Index >= 0
}

// String renders p in bracket form, e.g. donations[2].percentage.
func (p Path) String() string {
	if p.Index < 0 {
		return p.Field
	}
	s := p.Field + "[" + strconv.Itoa(p.Index) + "]"
	if p.Sub != "" {
		s += "." + p.Sub
	}
	return s
}

// ParsePath reads a path in bracket form (donations[2].percentage) or dot
// form (donations.2.percentage).
func ParsePath(s string) (Path, error) {
	bad := func() (Path, error) {
		return Path{}, fmt.Errorf("%w: %q", ErrUnknownPath, s)
	}

	name, rest := s, ""
	if i := strings.IndexAny(s, ".["); i >= 0 {
		name, rest = s[:i], s[i:]
	}
	if rest == "" {
		if !isTopLevel(name) {
			return bad()
		}
		return FieldPath(name), nil
	}
	if name != FieldDonations {
		return bad()
	}

	var idx string
	if rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return bad()
		}
		idx, rest = rest[1:end], rest[end+1:]
	} else {
		rest = rest[1:]
		if j := strings.IndexByte(rest, '.'); j >= 0 {
			idx, rest = rest[:j], rest[j:]
		} else {
			idx, rest = rest, ""
		}
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return bad()
	}
	if rest == "" {
		return Path{Field: FieldDonations, Index: n}, nil
	}
	if rest[0] != '.' {
		return bad()
	}
	sub := rest[1:]
	if sub != FieldInstitution && sub != FieldPercentage {
		return bad()
	}
	return ItemPath(n, sub), nil
}

func isTopLevel(name string) bool {
	switch name {
	case FieldFirstName, FieldSecondName, FieldOver18, FieldDonationsAmount,
		FieldTermsAndConditions, FieldDonations:
		return true
	}
	return false
}
