package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("aggregate not found")
	ErrAlreadyExists = errors.New("aggregate already exists")
	ErrUnknownEvent  = errors.New("unknown event kind")
)

// ValidationError rejects a command that violates a business rule. A command
// failing validation never produces events.
type ValidationError struct {
	Rule string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Rule)
}

func validationErr(format string, args ...any) error {
	return &ValidationError{Rule: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a business-rule rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
