package runner

import (
	"errors"
	"fmt"
)

// InvalidStateError reports an API call made in a state that forbids it:
// Continue while awaiting a choice or after completion, SelectOption while
// not awaiting one. Fatal to that call only; run state is untouched.
type InvalidStateError struct {
	Op     string // the call that was rejected
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// IsInvalidStateError reports whether err is an InvalidStateError.
// Uses errors.As to handle wrapped errors.
func IsInvalidStateError(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}
