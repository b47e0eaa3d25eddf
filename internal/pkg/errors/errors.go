package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeLimitReached       = "LIMIT_REACHED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeDatabase           = "DATABASE_ERROR"
	ErrCodeUpstream           = "UPSTREAM_ERROR"
	ErrCodeDeadlineExceeded   = "DEADLINE_EXCEEDED"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Domain sentinels. Services wrap these; handlers match them with errors.Is.
var (
	ErrAccountNotFound    = stderrors.New("account not found")
	ErrAlreadyExists      = stderrors.New("account already exists")
	ErrInvalidCredentials = stderrors.New("invalid credentials")
	ErrInvalidInput       = stderrors.New("invalid input")
	ErrUnauthenticated    = stderrors.New("unauthenticated")
	ErrLimitReached       = stderrors.New("free limit reached")
)

// Is and As are re-exported so callers importing this package
// under the name "errors" keep access to the standard helpers.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

// InvalidCredentials is returned for both an unknown email and a wrong password.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "Invalid credentials", http.StatusBadRequest)
}

// AlreadyExists reports a duplicate registration. Existing clients expect a 500 here.
func AlreadyExists() *AppError {
	return New(ErrCodeAlreadyExists, "User already exists or server error", http.StatusInternalServerError)
}

// LimitReached creates the payment-required error shown when the free tier is used up
func LimitReached(details interface{}) *AppError {
	return New(ErrCodeLimitReached, "Free limit reached.", http.StatusPaymentRequired).WithDetails(details)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// UpstreamError creates an error for a failed connection to an upstream API.
// Upstream HTTP errors are passed through instead; this covers transport failures.
func UpstreamError(service string, err error) *AppError {
	return Wrap(err, ErrCodeUpstream,
		fmt.Sprintf("Failed to communicate with %s API", service),
		http.StatusInternalServerError)
}

// DeadlineExceeded creates a timeout error
func DeadlineExceeded(message string, err error) *AppError {
	return Wrap(err, ErrCodeDeadlineExceeded, message, http.StatusGatewayTimeout)
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// ServiceUnavailable creates a service unavailable error
func ServiceUnavailable(message string) *AppError {
	return New(ErrCodeServiceUnavailable, message, http.StatusServiceUnavailable)
}
