package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Container errors
const (
	// ErrCodeInitializationFailed indicates the container could not be built.
	ErrCodeInitializationFailed ErrorCode = "INITIALIZATION_FAILED"
	// ErrCodeNotFound indicates no instance is registered under the requested key.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidType indicates the stored instance is not assignable to the requested key.
	ErrCodeInvalidType ErrorCode = "INVALID_TYPE"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for use with errors.Is. Matching is by code only.
var (
	ErrInitializationFailed = &AppError{Code: ErrCodeInitializationFailed}
	ErrNotFound             = &AppError{Code: ErrCodeNotFound}
	ErrInvalidType          = &AppError{Code: ErrCodeInvalidType}
)
