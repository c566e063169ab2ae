package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a referenced user, task, block, or session id that does
// not exist (or is soft-deleted and hidden from the query).
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed user input before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
