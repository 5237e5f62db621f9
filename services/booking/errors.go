package booking

import (
	"errors"
	"fmt"
)

// Code classifies a failure for callers that need to branch on it. Every
// operation of the booking engine fails with exactly one of these.
type Code string

const (
	CodeValidation     Code = "VALIDATION"
	CodeAccessDenied   Code = "ACCESS_DENIED"
	CodeInvalidState   Code = "INVALID_STATE"
	CodeNotFound       Code = "NOT_FOUND"
	CodeContention     Code = "RESOURCE_CONTENTION"
	CodeAlreadyDone    Code = "ALREADY_DONE"
	CodeInfrastructure Code = "INFRASTRUCTURE"
)

// Error is a typed failure with a short human-readable message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a typed booking error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// IsCode reports whether err is a booking error with the given code.
func IsCode(err error, code Code) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == code
}
