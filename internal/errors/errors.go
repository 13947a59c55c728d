package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"

	// ErrCodeInvalidCredentials indicates the identity provider rejected the email/password pair.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeRateLimited indicates too many failed sign-in attempts.
	ErrCodeRateLimited ErrorCode = "rate_limited"
	// ErrCodeAccessDenied indicates an authenticated identity without the admin role.
	ErrCodeAccessDenied ErrorCode = "access_denied"
	// ErrCodeUpdateFailed indicates the backend rejected a write.
	ErrCodeUpdateFailed ErrorCode = "update_failed"
	// ErrCodeUnknown indicates an unclassified failure.
	ErrCodeUnknown ErrorCode = "unknown"
)

// User-facing messages for the sign-in taxonomy.
const (
	MsgNoAccount       = "No account found with this email address."
	MsgWrongPassword   = "Incorrect password."
	MsgRateLimited     = "Too many failed login attempts. Please try again later."
	MsgAccessDenied    = "Access denied. Admin privileges required."
	MsgLoginFailed     = "Login failed. Please check your credentials."
	MsgUpdateFailed    = "The update could not be saved. Please try again."
	MsgInternalFailure = "Something went wrong. Please try again."
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newf(code ErrorCode, format string, args ...any) *AppError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &AppError{Code: code, Message: msg}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError { return newf(ErrCodeNotFound, format, args...) }

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return newf(ErrCodeValidation, format, args...)
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// InvalidCredentials creates a sign-in rejection carrying the user-facing message.
func InvalidCredentials(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeInvalidCredentials, Message: message, Cause: cause}
}

// RateLimited creates a sign-in throttling error.
func RateLimited(cause error) *AppError {
	return &AppError{Code: ErrCodeRateLimited, Message: MsgRateLimited, Cause: cause}
}

// AccessDenied creates an error for identities lacking the admin role.
func AccessDenied(message string) *AppError {
	return AccessDeniedCause(message, nil)
}

// AccessDeniedCause is AccessDenied with the underlying failure kept as the cause.
func AccessDeniedCause(message string, cause error) *AppError {
	if message == "" {
		message = MsgAccessDenied
	}
	return &AppError{Code: ErrCodeAccessDenied, Message: message, Cause: cause}
}

// UpdateFailed wraps a backend write rejection.
func UpdateFailed(cause error) *AppError {
	return &AppError{Code: ErrCodeUpdateFailed, Message: MsgUpdateFailed, Cause: cause}
}

// Unknown wraps an unclassified failure behind a generic message.
func Unknown(message string, cause error) *AppError {
	if message == "" {
		message = MsgLoginFailed
	}
	return &AppError{Code: ErrCodeUnknown, Message: message, Cause: cause}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool { return isCode(err, ErrCodeInvalidCredentials) }

// IsRateLimited checks if an error is a RateLimited error.
func IsRateLimited(err error) bool { return isCode(err, ErrCodeRateLimited) }

// IsAccessDenied checks if an error is an AccessDenied error.
func IsAccessDenied(err error) bool { return isCode(err, ErrCodeAccessDenied) }

// IsUpdateFailed checks if an error is an UpdateFailed error.
func IsUpdateFailed(err error) bool { return isCode(err, ErrCodeUpdateFailed) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// UserMessage returns a message safe to show an operator. Provider and transport
// details are never included.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return MsgInternalFailure
	}
	switch appErr.Code {
	case ErrCodeInvalidCredentials, ErrCodeAccessDenied, ErrCodeValidation,
		ErrCodeNotFound, ErrCodeConflict, ErrCodeTimeout, ErrCodeCanceled:
		return appErr.Message
	case ErrCodeRateLimited:
		return MsgRateLimited
	case ErrCodeUpdateFailed:
		return MsgUpdateFailed
	case ErrCodeUnknown:
		return MsgLoginFailed
	case ErrCodeInternal:
		return MsgInternalFailure
	}
	return MsgInternalFailure
}
