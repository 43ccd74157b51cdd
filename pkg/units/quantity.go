package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Quantity is a numeric value carried with its unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

var numberRE = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]*)?([eE][+-]?[0-9]+)?`)

// ParseQuantity splits a rendering such as "1.5 m/s" into its value and
// unit. A bare number parses as a dimensionless quantity.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	m := numberRE.FindString(s)
	if m == "" {
		return Quantity{}, fmt.Errorf("no number found in %q", s)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("parse %q: %w", s, err)
	}
	u, err := Parse(s[len(m):])
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, Unit: u}, nil
}

// ConvertTo expresses the quantity in the target unit.
func (q Quantity) ConvertTo(target string) (Quantity, error) {
	u, err := Parse(target)
	if err != nil {
		return Quantity{}, err
	}
	factor, offset, err := q.Unit.conversionTo(u)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: (q.Value + offset) * factor, Unit: u}, nil
}

func (q Quantity) String() string {
	v := strconv.FormatFloat(q.Value, 'g', -1, 64)
	if q.Unit.name == "" || q.Unit.name == "1" {
		return v
	}
	return v + " " + q.Unit.name
}
