package runtime

import (
	"errors"
	"fmt"
)

// InvalidOptionError reports a selection against a runtime that is not
// presenting options, or an index outside the current set. The failed call
// leaves runtime state untouched.
type InvalidOptionError struct {
	Index     int
	Available int  // size of the pending set, 0 when none
	Pending   bool // whether a choice set was pending at all
}

func (e *InvalidOptionError) Error() string {
	if !e.Pending {
		return fmt.Sprintf("select option %d: no choice set pending", e.Index)
	}
	return fmt.Sprintf("select option %d: index out of range (0..%d)", e.Index, e.Available-1)
}

// IsInvalidOptionError reports whether err is an InvalidOptionError.
// Uses errors.As to handle wrapped errors.
func IsInvalidOptionError(err error) bool {
	var oe *InvalidOptionError
	return errors.As(err, &oe)
}
