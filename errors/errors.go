package errors

import (
	"fmt"
)

// MuninnError is the structured error type for muninn.
// Every fallible operation in the adapter returns one so the host boundary
// can marshal the message back to the caller verbatim.
type MuninnError struct {
	// Code is the unique error code (e.g., "ERR_401_FIELD_NOT_FOUND").
	Code string

	// Message is the human-readable error message. It always names the
	// offending field, path, or query fragment.
	Message string

	// Category is the error category (Schema, IO, Engine, Query, Lock).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *MuninnError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *MuninnError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with MuninnError.
func (e *MuninnError) Is(target error) bool {
	if t, ok := target.(*MuninnError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *MuninnError) WithDetail(key, value string) *MuninnError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new MuninnError with the given code and message.
// The category is derived from the code.
func New(code string, message string, cause error) *MuninnError {
	return &MuninnError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a new MuninnError with a formatted message.
func Newf(code string, format string, args ...any) *MuninnError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a MuninnError from an existing error, keeping it as the cause.
func Wrap(code string, message string, err error) *MuninnError {
	if err == nil {
		return New(code, message, nil)
	}
	return New(code, fmt.Sprintf("%s: %v", message, err), err)
}

// Code matches errors by code. Useful as a target for errors.Is:
//
//	errors.Is(err, muninnerrors.Code(muninnerrors.ErrCodeEmptyPrefix))
func Code(code string) *MuninnError {
	return &MuninnError{Code: code, Category: categoryFromCode(code)}
}

// GetCode extracts the error code from a MuninnError.
// Returns empty string if not a MuninnError.
func GetCode(err error) string {
	if me, ok := err.(*MuninnError); ok {
		return me.Code
	}
	return ""
}

// GetCategory extracts the category from a MuninnError.
// Returns empty string if not a MuninnError.
func GetCategory(err error) Category {
	if me, ok := err.(*MuninnError); ok {
		return me.Category
	}
	return ""
}
