package pledge

// Validate checks every field of v against schema. Scalar fields and donation
// rows are reported individually; the donations list as a whole gets at most
// one aggregate error.
func Validate(schema *Schema, v Values) Errors {
	var errs Errors

	field := func(name string, r Rule, ok bool) {
		if !ok {
			errs.Fields = append(errs.Fields, &FieldError{Field: name, Rule: r.Name(), Message: r.Message})
		}
	}

	r, ok := CheckString(v.FirstName, schema.FirstName...)
	field(FieldFirstName, r, ok)
	r, ok = CheckString(v.SecondName, schema.SecondName...)
	field(FieldSecondName, r, ok)
	r, ok = CheckBool(v.Over18, schema.Over18...)
	field(FieldOver18, r, ok)
	r, ok = CheckNumber(v.DonationsAmount, schema.NotNumber, schema.DonationsAmount...)
	field(FieldDonationsAmount, r, ok)
	r, ok = CheckBool(v.TermsAndConditions, schema.TermsAndConditions...)
	field(FieldTermsAndConditions, r, ok)

	errs.Items, errs.Aggregate = ValidateDonations(schema, v.Donations)
	return errs
}

// ValidateDonations checks each row and then the list as a whole.
//
// The sum is computed over every row whether or not the row is valid on its
// own; a percentage that is missing or not a number counts as 0. When the
// list is shorter than the minimum, that error takes the aggregate slot.
func ValidateDonations(schema *Schema, donations []Donation) ([]*ItemError, *AggregateError) {
	var items []*ItemError
	var sum float64

	for i, d := range donations {
		if r, ok := CheckString(d.Institution, schema.Institution...); !ok {
			items = append(items, &ItemError{Index: i, Key: d.Key, Field: FieldInstitution, Rule: r.Name(), Message: r.Message})
		}
		if r, ok := CheckNumber(d.Percentage, schema.NotNumber, schema.Percentage...); !ok {
			items = append(items, &ItemError{Index: i, Key: d.Key, Field: FieldPercentage, Rule: r.Name(), Message: r.Message})
		}
		sum += d.Percentage.Or(0)
	}

	if len(donations) < schema.MinDonations {
		return items, &AggregateError{
			Field:   FieldDonations,
			Rule:    RuleMinItems,
			Sum:     sum,
			Count:   len(donations),
			Message: schema.MinDonationsMessage,
		}
	}
	if sum != schema.Total {
		return items, &AggregateError{
			Field:   FieldDonations,
			Rule:    RuleSum,
			Sum:     sum,
			Count:   len(donations),
			Message: schema.SumMessage(sum),
		}
	}
	return items, nil
}
