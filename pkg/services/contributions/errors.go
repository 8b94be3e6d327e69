package contributions

import (
	"errors"
	"fmt"
)

// ErrMissingRequiredField is matched by every error reporting a per-day node
// without its count attribute.
var ErrMissingRequiredField = errors.New("missing required field")

type MissingFieldError struct {
	Field string
	Date  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: per-day node %q has no %q attribute", ErrMissingRequiredField, e.Date, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}
