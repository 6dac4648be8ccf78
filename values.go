package pledge

import "github.com/google/uuid"

// Donation is one institution and the share of the donation it receives.
//
// Key identifies the row for as long as it exists, independent of its
// position in the list. It is assigned on creation and never serialized.
type Donation struct {
	Key         string `json:"-" yaml:"-"`
	Institution string `json:"institution" yaml:"institution"`
	Percentage  Number `json:"percentage" yaml:"percentage"`
}

// NewDonation returns a keyed donation row.
func NewDonation(institution string, percentage float64) Donation {
	return Donation{
		Key:         uuid.NewString(),
		Institution: institution,
		Percentage:  Num(percentage),
	}
}

// EmptyDonation returns the row added by the "add donation" action:
// no institution and a percentage of 0.
func EmptyDonation() Donation {
	return NewDonation("", 0)
}

// Values holds everything the donation form collects.
type Values struct {
	FirstName          string     `json:"firstName" yaml:"firstName"`
	SecondName         string     `json:"secondName" yaml:"secondName"`
	Over18             bool       `json:"over18" yaml:"over18"`
	DonationsAmount    Number     `json:"donationsAmount" yaml:"donationsAmount"`
	TermsAndConditions bool       `json:"termsAndConditions" yaml:"termsAndConditions"`
	Donations          []Donation `json:"donations" yaml:"donations"`
}

// NewValues returns the initial form: blank details, an amount of 0 and a
// single empty donation row.
func NewValues() Values {
	return Values{
		DonationsAmount: Num(0),
		Donations:       []Donation{EmptyDonation()},
	}
}

// Clone returns a copy that shares no memory with v.
func (v Values) Clone() Values {
	out := v
	if v.Donations != nil {
		out.Donations = make([]Donation, len(v.Donations))
		copy(out.Donations, v.Donations)
	}
	return out
}

// Sum adds up every donation percentage. Rows without a valid number count
// as 0.
func (v Values) Sum() float64 {
	var sum float64
	for _, d := range v.Donations {
		sum += d.Percentage.Or(0)
	}
	return sum
}

// Equal compares the form contents, ignoring row keys.
func (v Values) Equal(o Values) bool {
	if v.FirstName != o.FirstName ||
		v.SecondName != o.SecondName ||
		v.Over18 != o.Over18 ||
		v.DonationsAmount != o.DonationsAmount ||
		v.TermsAndConditions != o.TermsAndConditions ||
		len(v.Donations) != len(o.Donations) {
		return false
	}
	for i := range v.Donations {
		a, b := v.Donations[i], o.Donations[i]
		if a.Institution != b.Institution || a.Percentage != b.Percentage {
			return false
		}
	}
	return true
}

// indexOf returns the position of the row with the given key, or -1.
func (v Values) indexOf(key string) int {
	for i, d := range v.Donations {
		if d.Key == key {
			return i
		}
	}
	return -1
}

// ensureKeys gives a fresh key to every row that has none or repeats the
// key of an earlier row. Values decoded from a draft never carry keys.
func (v *Values) ensureKeys() {
	seen := make(map[string]bool, len(v.Donations))
	for i := range v.Donations {
		d := &v.Donations[i]
		if d.Key == "" || seen[d.Key] {
			d.Key = uuid.NewString()
		}
		seen[d.Key] = true
	}
}
