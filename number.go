package pledge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a numeric form input.
//
// Text that does not parse as a number is kept in Raw rather than discarded,
// so a half-typed value survives until the user corrects it. Value is only
// meaningful when Valid is true. The zero Number is an empty input.
type Number struct {
	Value float64
	Raw   string
	Valid bool
}

// Num returns a valid Number holding v.
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

// ParseNumber interprets user input. Blank input yields an empty Number;
// anything that is not a finite decimal number, hexadecimal notation
// included, is kept as raw text.
func ParseNumber(s string) Number {
	t := strings.TrimSpace(s)
	if t == "" {
		return Number{}
	}
	// ParseFloat also reads hexadecimal floats such as 0x1p4.
	if strings.ContainsAny(t, "xX") {
		return Number{Raw: s}
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{Raw: s}
	}
	return Number{Value: v, Valid: true}
}

// Set reports whether anything was entered.
func (n Number) Set() bool {
	return n.Valid || n.Raw != ""
}

// Or returns the parsed value, or fallback when n is not a valid number.
func (n Number) Or(fallback float64) float64 {
	if n.Valid {
		return n.Value
	}
	return fallback
}

// String returns the value as the user would see it in an input box.
func (n Number) String() string {
	if n.Valid {
		return formatFloat(n.Value)
	}
	return n.Raw
}

// MarshalJSON encodes a valid Number as a JSON number, raw text as a string
// and an empty input as null.
func (n Number) MarshalJSON() ([]byte, error) {
	switch {
	case n.Valid:
		return []byte(formatFloat(n.Value)), nil
	case n.Raw != "":
		return json.Marshal(n.Raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a number, a string (parsed as user input) or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = Number{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = ParseNumber(s)
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*n = Num(v)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (n Number) MarshalYAML() (any, error) {
	switch {
	case n.Valid:
		return n.Value, nil
	case n.Raw != "":
		return n.Raw, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML accepts any scalar; non-numeric scalars become raw text.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar for a number", node.Line)
	}
	if node.Tag == "!!null" {
		*n = Number{}
		return nil
	}
	*n = ParseNumber(node.Value)
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
