// Package units converts values that carry physical units between
// compatible units. The built-in table covers base units for length,
// mass, time, temperature, and angle plus the customary units model
// state arrives in, and resolves metric prefixes and compound
// expressions such as "kg*m/s**2".
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Base dimension indices for the powers vector.
const (
	dimLength = iota
	dimMass
	dimTime
	dimTemperature
	dimAngle
	numDims
)

// Unit is a scaling factor over the base dimensions plus an additive
// offset. Offsets appear only on absolute temperature scales.
type Unit struct {
	name   string
	factor float64
	offset float64
	powers [numDims]int
}

// Name returns the unit as it was written, e.g. "km/h".
func (u Unit) Name() string { return u.name }

// Compatible reports whether values can be converted between u and other.
func (u Unit) Compatible(other Unit) bool { return u.powers == other.powers }

// conversionTo returns the factor and offset such that a value x in u
// equals (x+offset)*factor in other.
func (u Unit) conversionTo(other Unit) (factor, offset float64, err error) {
	if u.powers != other.powers {
		return 0, 0, &incompatibleUnitsError{from: u.name, to: other.name}
	}
	factor = u.factor / other.factor
	offset = u.offset - other.offset*other.factor/u.factor
	return factor, offset, nil
}

var unitTable = map[string]Unit{}

var prefixes = map[string]float64{
	"y": 1e-24, "z": 1e-21, "a": 1e-18, "f": 1e-15, "p": 1e-12,
	"n": 1e-9, "u": 1e-6, "m": 1e-3, "c": 1e-2, "d": 1e-1,
	"da": 1e1, "h": 1e2, "k": 1e3, "M": 1e6, "G": 1e9,
	"T": 1e12, "P": 1e15, "E": 1e18,
}

func register(name string, factor, offset float64, powers [numDims]int) {
	unitTable[name] = Unit{name: name, factor: factor, offset: offset, powers: powers}
}

func init() {
	length := [numDims]int{dimLength: 1}
	mass := [numDims]int{dimMass: 1}
	duration := [numDims]int{dimTime: 1}
	temperature := [numDims]int{dimTemperature: 1}
	angle := [numDims]int{dimAngle: 1}

	register("m", 1, 0, length)
	register("ft", 0.3048, 0, length)
	register("in", 0.0254, 0, length)
	register("yd", 0.9144, 0, length)
	register("mi", 1609.344, 0, length)
	register("nmi", 1852, 0, length)

	register("kg", 1, 0, mass)
	register("g", 1e-3, 0, mass)
	register("lb", 0.45359237, 0, mass)
	register("slug", 14.5939029372, 0, mass)

	register("s", 1, 0, duration)
	register("min", 60, 0, duration)
	register("h", 3600, 0, duration)
	register("day", 86400, 0, duration)

	register("K", 1, 0, temperature)
	register("degC", 1, 273.15, temperature)
	register("degF", 5.0/9.0, 459.67, temperature)
	register("degR", 5.0/9.0, 0, temperature)

	register("rad", 1, 0, angle)
	register("deg", math.Pi/180, 0, angle)
	register("rev", 2*math.Pi, 0, angle)
}

// lookup resolves a bare unit name, trying the table first and then a
// one or two letter metric prefix, as in "km" or "daN".
func lookup(name string) (Unit, error) {
	if u, ok := unitTable[name]; ok {
		return u, nil
	}
	if len(name) > 1 {
		if f, ok := prefixes[name[:1]]; ok {
			if u, ok := unitTable[name[1:]]; ok {
				return scaled(name, u, f), nil
			}
		}
	}
	if len(name) > 2 {
		if f, ok := prefixes[name[:2]]; ok {
			if u, ok := unitTable[name[2:]]; ok {
				return scaled(name, u, f), nil
			}
		}
	}
	return Unit{}, &unknownUnitError{name: name}
}

func scaled(name string, u Unit, factor float64) Unit {
	return Unit{name: name, factor: u.factor * factor, offset: u.offset * factor, powers: u.powers}
}

// Parse resolves a unit expression. A bare name keeps its offset, so
// "degC" converts as a temperature scale. Compound expressions combine
// factors with "*", "/", and "**n" exponents; offset units are rejected
// there because the offset has no meaning inside a product.
func Parse(expr string) (Unit, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(expr), " ", "")
	if clean == "" || clean == "1" {
		return Unit{name: "1", factor: 1}, nil
	}
	if !strings.ContainsAny(clean, "*/") {
		return lookup(clean)
	}

	out := Unit{name: clean, factor: 1}
	rest := strings.ReplaceAll(clean, "**", "^")
	mul := true
	for {
		i := strings.IndexAny(rest, "*/")
		term := rest
		if i >= 0 {
			term = rest[:i]
		}
		if err := applyTerm(&out, term, mul); err != nil {
			return Unit{}, err
		}
		if i < 0 {
			return out, nil
		}
		mul = rest[i] == '*'
		rest = rest[i+1:]
	}
}

func applyTerm(out *Unit, term string, mul bool) error {
	name, exp := term, 1
	if j := strings.Index(term, "^"); j >= 0 {
		n, err := strconv.Atoi(term[j+1:])
		if err != nil {
			return &unknownUnitError{name: term}
		}
		name, exp = term[:j], n
	}
	if name == "" {
		return &unknownUnitError{name: out.name}
	}
	u, err := lookup(name)
	if err != nil {
		return err
	}
	if u.offset != 0 {
		return fmt.Errorf("unit %q carries an offset and cannot appear in a compound expression", name)
	}
	if !mul {
		exp = -exp
	}
	out.factor *= math.Pow(u.factor, float64(exp))
	for d := range out.powers {
		out.powers[d] += u.powers[d] * exp
	}
	return nil
}
