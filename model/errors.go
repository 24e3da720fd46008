package model

import (
	"fmt"

	"github.com/juju/errors"
)

// Bound identifies which side of a unit's size range was violated.
type Bound string

const (
	BoundMin Bound = "min_models"
	BoundMax Bound = "max_models"
)

// NotInOptionsError is returned when a unit is asked to equip or unequip
// something that is not one of its legal options.
type NotInOptionsError struct {
	errors.Err

	Unit      string
	Equipment string
}

func newNotInOptions(unit, equipment string) error {
	err := &NotInOptionsError{
		Err:       errors.NewErr("equipment %q is not an option for unit %q", equipment, unit),
		Unit:      unit,
		Equipment: equipment,
	}
	err.SetLocation(1)
	return err
}

// IsNotInOptions reports whether the cause of err is a NotInOptionsError.
func IsNotInOptions(err error) bool {
	_, ok := errors.Cause(err).(*NotInOptionsError)
	return ok
}

// OutOfRangeError describes a unit size that falls outside the
// [Min, Max] range of its unit.
type OutOfRangeError struct {
	errors.Err

	Size  int
	Min   int
	Max   int
	Bound Bound
}

func newOutOfRange(size, min, max int) error {
	bound := BoundMax
	if size < min {
		bound = BoundMin
	}
	err := &OutOfRangeError{
		Err:   errors.NewErr("unit size %d outside range [%d, %d] (%s violated)", size, min, max, bound),
		Size:  size,
		Min:   min,
		Max:   max,
		Bound: bound,
	}
	err.SetLocation(1)
	return err
}

// IsOutOfRange reports whether the cause of err is an OutOfRangeError.
func IsOutOfRange(err error) bool {
	_, ok := errors.Cause(err).(*OutOfRangeError)
	return ok
}

// InvariantViolationError is returned when a value breaks a structural
// rule of the roster model, e.g. a negative characteristic.
type InvariantViolationError struct {
	errors.Err

	Field string
	Value string
}

func newInvariantViolation(field string, value interface{}, rule string) error {
	v := fmt.Sprint(value)
	err := &InvariantViolationError{
		Err:   errors.NewErr("%s=%s violates invariant: %s", field, v, rule),
		Field: field,
		Value: v,
	}
	err.SetLocation(1)
	return err
}

// IsInvariantViolation reports whether the cause of err is an
// InvariantViolationError.
func IsInvariantViolation(err error) bool {
	_, ok := errors.Cause(err).(*InvariantViolationError)
	return ok
}
