package model

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a stale id: the record was deleted or renamed
// concurrently. Callers should reload and retry from a fresh read.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed input. It is never retried and is
// surfaced verbatim to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for a field.
func Validationf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
