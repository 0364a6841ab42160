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

	// Identifier errors
	ErrInvalidName ErrorCode = "INVALID_NAME"

	// Archive errors
	ErrArchive    ErrorCode = "ARCHIVE"
	ErrSanity     ErrorCode = "SANITY_FAILED"
	ErrPathPrefix ErrorCode = "PATH_PREFIX"

	// Install errors
	ErrNoModDirectory ErrorCode = "NO_MOD_DIRECTORY"
	ErrDependency     ErrorCode = "DEPENDENCY"

	// Persistence errors
	ErrMissingFile ErrorCode = "MISSING_FILE"
	ErrMissingPath ErrorCode = "MISSING_PATH"
	ErrParse       ErrorCode = "PARSE"
	ErrCache       ErrorCode = "CACHE"

	// Network errors
	ErrNetwork ErrorCode = "NETWORK"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// EmberError represents a structured error with code and details
type EmberError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *EmberError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *EmberError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *EmberError) Is(target error) bool {
	var targetErr *EmberError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new EmberError with the given code and message
func New(code ErrorCode, message string) *EmberError {
	return &EmberError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new EmberError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *EmberError {
	return &EmberError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an EmberError
func Wrap(err error, code ErrorCode, message string) *EmberError {
	if err == nil {
		return nil
	}
	return &EmberError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *EmberError {
	if err == nil {
		return nil
	}
	return &EmberError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *EmberError) WithDetail(key string, value interface{}) *EmberError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var emberErr *EmberError
	if errors.As(err, &emberErr) {
		return emberErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an EmberError
func GetErrorCode(err error) ErrorCode {
	var emberErr *EmberError
	if errors.As(err, &emberErr) {
		return emberErr.Code
	}
	return ErrUnknown
}
