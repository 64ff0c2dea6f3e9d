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

	// Template syntax errors
	ErrUnterminatedDirective ErrorCode = "UNTERMINATED_DIRECTIVE"
	ErrEmptyDirectiveName    ErrorCode = "EMPTY_DIRECTIVE_NAME"
	ErrEmptyModifier         ErrorCode = "EMPTY_MODIFIER"
	ErrInvalidSyntax         ErrorCode = "INVALID_SYNTAX"

	// Resolution errors
	ErrUnknownVariable  ErrorCode = "UNKNOWN_VARIABLE"
	ErrUnknownModifier  ErrorCode = "UNKNOWN_MODIFIER"
	ErrUnknownGenerator ErrorCode = "UNKNOWN_GENERATOR"
	ErrGenerate         ErrorCode = "GENERATE_FAILED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Bundle errors
	ErrBundleNotFound ErrorCode = "BUNDLE_NOT_FOUND"
	ErrBundleInvalid  ErrorCode = "BUNDLE_INVALID"

	// FileSystem errors
	ErrFileRead   ErrorCode = "FILE_READ"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrFileExists ErrorCode = "FILE_EXISTS"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// ScaffError represents a structured error with code and details
type ScaffError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ScaffError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ScaffError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ScaffError) Is(target error) bool {
	var targetErr *ScaffError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ScaffError with the given code and message
func New(code ErrorCode, message string) *ScaffError {
	return &ScaffError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ScaffError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ScaffError {
	return &ScaffError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ScaffError
func Wrap(err error, code ErrorCode, message string) *ScaffError {
	if err == nil {
		return nil
	}
	return &ScaffError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ScaffError {
	if err == nil {
		return nil
	}
	return &ScaffError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ScaffError) WithDetail(key string, value interface{}) *ScaffError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ScaffError) WithDetails(details map[string]interface{}) *ScaffError {
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
	var scaffErr *ScaffError
	if errors.As(err, &scaffErr) {
		return scaffErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ScaffError
func GetErrorCode(err error) ErrorCode {
	var scaffErr *ScaffError
	if errors.As(err, &scaffErr) {
		return scaffErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ScaffError.
// When the error wraps another ScaffError the outermost details win; inner
// details that the outer error does not set are carried along.
func GetErrorDetails(err error) map[string]interface{} {
	var scaffErr *ScaffError
	if !errors.As(err, &scaffErr) {
		return nil
	}
	merged := make(map[string]interface{}, len(scaffErr.Details))
	if inner := GetErrorDetails(scaffErr.Wrapped); inner != nil {
		for k, v := range inner {
			merged[k] = v
		}
	}
	for k, v := range scaffErr.Details {
		merged[k] = v
	}
	return merged
}

// Root returns the innermost ScaffError in the chain, or nil.
func Root(err error) *ScaffError {
	var scaffErr *ScaffError
	if !errors.As(err, &scaffErr) {
		return nil
	}
	if inner := Root(scaffErr.Wrapped); inner != nil {
		return inner
	}
	return scaffErr
}

// Annotate sets a detail on the outermost ScaffError in err unless that key
// is already present. Other errors are returned unchanged.
func Annotate(err error, key string, value interface{}) error {
	var scaffErr *ScaffError
	if !errors.As(err, &scaffErr) {
		return err
	}
	if _, exists := scaffErr.Details[key]; !exists {
		scaffErr.WithDetail(key, value)
	}
	return err
}
