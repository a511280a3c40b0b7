// Package errors defines the structured error type returned by the deployment
// engine. Every failure carries a stable ErrorCode so callers and tests can
// branch on the kind of failure instead of matching message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Mapping and deployment errors
	ErrInvalidMapping         ErrorCode = "INVALID_MAPPING"
	ErrSourceNotFound         ErrorCode = "SOURCE_NOT_FOUND"
	ErrAlreadyExists          ErrorCode = "ALREADY_EXISTS"
	ErrLinkVerificationFailed ErrorCode = "LINK_VERIFICATION_FAILED"
	ErrCopyVerificationFailed ErrorCode = "COPY_VERIFICATION_FAILED"
	ErrDirectoryCreateFailed  ErrorCode = "DIRECTORY_CREATE_FAILED"
	ErrFileAccess             ErrorCode = "FILE_ACCESS"

	// Configuration errors
	ErrConfigLoad         ErrorCode = "CONFIG_LOAD"
	ErrConfigParse        ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid      ErrorCode = "CONFIG_INVALID"
	ErrUnknownStrategy    ErrorCode = "UNKNOWN_STRATEGY"
	ErrUnknownPackageType ErrorCode = "UNKNOWN_PACKAGE_TYPE"
)

// DeployError represents a structured error with code and details
type DeployError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DeployError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DeployError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DeployError) Is(target error) bool {
	var targetErr *DeployError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DeployError with the given code and message
func New(code ErrorCode, message string) *DeployError {
	return &DeployError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DeployError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DeployError {
	return &DeployError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DeployError
func Wrap(err error, code ErrorCode, message string) *DeployError {
	if err == nil {
		return nil
	}
	return &DeployError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DeployError {
	if err == nil {
		return nil
	}
	return &DeployError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DeployError) WithDetail(key string, value interface{}) *DeployError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DeployError) WithDetails(details map[string]interface{}) *DeployError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var deployErr *DeployError
	if errors.As(err, &deployErr) {
		return deployErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DeployError
func GetErrorCode(err error) ErrorCode {
	var deployErr *DeployError
	if errors.As(err, &deployErr) {
		return deployErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DeployError
func GetErrorDetails(err error) map[string]interface{} {
	var deployErr *DeployError
	if errors.As(err, &deployErr) {
		return deployErr.Details
	}
	return nil
}

// AlreadyExists builds the conflict error reported when a destination is
// occupied and force is off. The message always points at the force option.
func AlreadyExists(dest string, what string) *DeployError {
	return Newf(ErrAlreadyExists, "target %s already exists%s (set extra.files-force to override)", dest, what).
		WithDetail("dest", dest)
}
