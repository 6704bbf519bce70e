package errors

import (
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Container Error Constructors ---

// InitializationFailed creates an AppError for a container build that had to abort.
// typeName identifies the offending type and may be empty when the failure is not
// tied to a single type (for example a failing scanner).
func InitializationFailed(typeName string, cause error) *AppError {
	msg := "container initialization failed"
	if typeName != "" {
		msg = fmt.Sprintf("cannot register injectable %s", typeName)
	}
	e := &AppError{Code: ErrCodeInitializationFailed, Message: msg, Cause: cause}
	if typeName != "" {
		e.WithDetail("type", typeName)
	}
	return e
}

// NotFound creates an AppError for a lookup key that has no registered instance.
func NotFound(key string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("no injectable registered for %s", key),
		Details: map[string]any{"key": key},
	}
}

// InvalidType creates an AppError for a stored instance that does not satisfy its key.
func InvalidType(key, actual string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidType, Message: fmt.Sprintf("injectable registered for %s is %s", key, actual),
		Details: map[string]any{"key": key, "actual": actual},
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: "an unexpected error occurred", Cause: cause}
}
