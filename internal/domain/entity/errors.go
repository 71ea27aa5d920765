package entity

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks arguments that can never succeed, such as an
	// offer without stored parties.
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError names the field that broke a Validate rule.
// errors.Is(err, ErrValidationFailed) holds for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }
