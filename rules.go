package pledge

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance.
var validate = validator.New()

const (
	tagRequired = "required"
	// tagNumber marks the failure reported for text that is not a number.
	// It is never handed to the validator.
	tagNumber = "number"
)

// Rule is a single field constraint: a validator tag and the message shown
// when the value fails it.
type Rule struct {
	Tag     string
	Message string
}

// Required fails on an empty value.
func Required(msg string) Rule {
	return Rule{Tag: tagRequired, Message: msg}
}

// MinLen fails on strings shorter than n characters.
func MinLen(n int, msg string) Rule {
	return Rule{Tag: "min=" + strconv.Itoa(n), Message: msg}
}

// MaxLen fails on strings longer than n characters.
func MaxLen(n int, msg string) Rule {
	return Rule{Tag: "max=" + strconv.Itoa(n), Message: msg}
}

// Min fails on numbers below v.
func Min(v float64, msg string) Rule {
	return Rule{Tag: "gte=" + formatFloat(v), Message: msg}
}

// Max fails on numbers above v.
func Max(v float64, msg string) Rule {
	return Rule{Tag: "lte=" + formatFloat(v), Message: msg}
}

// IsTrue fails unless a boolean is true.
func IsTrue(msg string) Rule {
	return Rule{Tag: "eq=true", Message: msg}
}

// Name is the tag without its parameter, e.g. "min" for "min=2".
func (r Rule) Name() string {
	name, _, _ := strings.Cut(r.Tag, "=")
	return name
}

// CheckString applies rules in order and returns the first one s fails.
func CheckString(s string, rules ...Rule) (Rule, bool) {
	return check(s, rules)
}

// CheckBool applies rules in order and returns the first one b fails.
func CheckBool(b bool, rules ...Rule) (Rule, bool) {
	return check(b, rules)
}

// CheckNumber applies rules to a numeric input. An empty input only fails a
// Required rule; text that is not a number fails with notNumber before any
// bound is considered.
func CheckNumber(n Number, notNumber string, rules ...Rule) (Rule, bool) {
	if !n.Valid {
		if n.Raw != "" {
			return Rule{Tag: tagNumber, Message: notNumber}, false
		}
		for _, r := range rules {
			if r.Tag == tagRequired {
				return r, false
			}
		}
		return Rule{}, true
	}

	// A parsed number is present even when it is 0, which the validator's
	// required tag would reject.
	bounds := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Tag != tagRequired {
			bounds = append(bounds, r)
		}
	}
	return check(n.Value, bounds)
}

func check(value any, rules []Rule) (Rule, bool) {
	for _, r := range rules {
		if err := validate.Var(value, r.Tag); err != nil {
			return r, false
		}
	}
	return Rule{}, true
}
