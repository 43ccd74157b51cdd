package units

import (
	"errors"
	"fmt"
)

type unknownUnitError struct{ name string }

func (e *unknownUnitError) Error() string {
	return fmt.Sprintf("no unit named %q is defined", e.name)
}

// IsUnknownUnit reports whether err names a unit missing from the table.
func IsUnknownUnit(err error) bool {
	var e *unknownUnitError
	return errors.As(err, &e)
}

type incompatibleUnitsError struct{ from, to string }

func (e *incompatibleUnitsError) Error() string {
	return fmt.Sprintf("cannot convert %q to %q: dimensions differ", e.from, e.to)
}

// IsIncompatibleUnits reports whether err came from converting between
// units with different base dimensions.
func IsIncompatibleUnits(err error) bool {
	var e *incompatibleUnitsError
	return errors.As(err, &e)
}
