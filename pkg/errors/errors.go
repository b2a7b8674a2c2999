// Package errors provides coded errors for modelconv.
//
// Every fatal condition of a conversion surfaces as a *ModelconvError with a
// stable ErrorCode so callers and tests can branch on the kind of failure
// without matching message text.
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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Conversion errors
	ErrEncodingConflict     ErrorCode = "ENCODING_CONFLICT"
	ErrUnsupportedExtension ErrorCode = "UNSUPPORTED_EXTENSION"
	ErrDuplicateRepoinit    ErrorCode = "DUPLICATE_REPOINIT"
	ErrModelInvalid         ErrorCode = "MODEL_INVALID"

	// Model I/O errors
	ErrModelRead  ErrorCode = "MODEL_READ"
	ErrModelParse ErrorCode = "MODEL_PARSE"
	ErrModelWrite ErrorCode = "MODEL_WRITE"

	// Resolution errors
	ErrArtifactResolve ErrorCode = "ARTIFACT_RESOLVE"
	ErrFeatureNotFound ErrorCode = "FEATURE_NOT_FOUND"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrOutputExists ErrorCode = "OUTPUT_EXISTS"
)

// ModelconvError represents a structured error with code and details
type ModelconvError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ModelconvError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ModelconvError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ModelconvError) Is(target error) bool {
	var targetErr *ModelconvError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ModelconvError with the given code and message
func New(code ErrorCode, message string) *ModelconvError {
	return &ModelconvError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ModelconvError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ModelconvError {
	return &ModelconvError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ModelconvError
func Wrap(err error, code ErrorCode, message string) *ModelconvError {
	if err == nil {
		return nil
	}
	return &ModelconvError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ModelconvError {
	if err == nil {
		return nil
	}
	return &ModelconvError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ModelconvError) WithDetail(key string, value interface{}) *ModelconvError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ModelconvError) WithDetails(details map[string]interface{}) *ModelconvError {
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
	var convErr *ModelconvError
	if errors.As(err, &convErr) {
		return convErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ModelconvError
func GetErrorCode(err error) ErrorCode {
	var convErr *ModelconvError
	if errors.As(err, &convErr) {
		return convErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ModelconvError
func GetErrorDetails(err error) map[string]interface{} {
	var convErr *ModelconvError
	if errors.As(err, &convErr) {
		return convErr.Details
	}
	return nil
}
