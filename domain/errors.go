package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeAuth         ErrorCode = "AUTH"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeUnavailable  ErrorCode = "UNAVAILABLE"
	ErrCodePublish      ErrorCode = "PUBLISH"
	ErrCodeParse        ErrorCode = "PARSE"
	ErrCodeProvisioning ErrorCode = "PROVISIONING"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors. Only the first four are ever visible to an HTTP
// caller; everything past the publish boundary is logged and swallowed.
var (
	ErrBadAPIKey        = NewError(ErrCodeAuth, "invalid api key")
	ErrMissingFields    = NewError(ErrCodeValidation, "email and nome are required")
	ErrBrokerNotReady   = NewError(ErrCodeUnavailable, "queue connection not ready")
	ErrPublishFailed    = NewError(ErrCodePublish, "failed to publish task")
	ErrIdentityNotFound = errors.New("identity not found")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
