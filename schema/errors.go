package schema

import (
	"fmt"

	"github.com/juju/errors"
)

// Error reports a document that does not conform to the schema.
type Error struct {
	errors.Err

	// Path is the location of the offending value, e.g.
	// "$.troops.equipment[1].category".
	Path   string
	Reason string
}

// NewError returns an *Error for the value at path.
func NewError(path, format string, args ...interface{}) error {
	reason := fmt.Sprintf(format, args...)
	err := &Error{
		Err:    errors.NewErr("schema error at %s: %s", path, reason),
		Path:   path,
		Reason: reason,
	}
	err.SetLocation(1)
	return err
}

// IsSchemaError reports whether the cause of err is a schema *Error.
func IsSchemaError(err error) bool {
	_, ok := errors.Cause(err).(*Error)
	return ok
}
