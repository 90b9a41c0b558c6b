package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if the error (or anything it wraps) is an
// AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether the error carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeFeatureType      = "FEATURE_TYPE_ERROR"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeTransformFailure = "TRANSFORM_FAILURE"
	CodeNotFound         = "NOT_FOUND"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors

// ValidationError flags a bad column reference, method name, or constraint
// violation on caller input.
func ValidationError(format string, args ...interface{}) *AppError {
	return New(CodeValidationError, fmt.Sprintf(format, args...))
}

// FeatureTypeError flags non-numeric feature columns passed to a
// numeric-only sampler.
func FeatureTypeError(format string, args ...interface{}) *AppError {
	return New(CodeFeatureType, fmt.Sprintf(format, args...))
}

// InsufficientData flags a statistic requested on too few usable values.
func InsufficientData(format string, args ...interface{}) *AppError {
	return New(CodeInsufficientData, fmt.Sprintf(format, args...))
}

// TransformFailure flags a per-column correction failure captured inside a
// batch result.
func TransformFailure(format string, args ...interface{}) *AppError {
	return New(CodeTransformFailure, fmt.Sprintf(format, args...))
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}
