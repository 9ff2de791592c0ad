package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, documented reason code. Callers surface these
// without reinterpretation.
type ErrorCode string

const (
	// Input / lookup
	ErrCodeInvalidCheckInToken   ErrorCode = "INVALID_CHECKIN_TOKEN"
	ErrCodeEventNotFound         ErrorCode = "EVENT_NOT_FOUND"
	ErrCodeAttendeeNotFound      ErrorCode = "ATTENDEE_NOT_FOUND"
	ErrCodeEventAttendeeNotFound ErrorCode = "EVENT_ATTENDEE_NOT_FOUND"

	// State conflicts
	ErrCodeAlreadyCheckedIn ErrorCode = "ALREADY_CHECKED_IN"

	// Business-window violations
	ErrCodeEventNotActive    ErrorCode = "EVENT_NOT_ACTIVE"
	ErrCodeCheckInNotStarted ErrorCode = "CHECKIN_NOT_STARTED"
	ErrCodeCheckInEnded      ErrorCode = "CHECKIN_ENDED"

	// Encoding
	ErrCodeQRGenerationFailed ErrorCode = "QRCODE_GENERATION_FAILED"

	// Validation
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeMissingRequired ErrorCode = "MISSING_REQUIRED"

	// Resource
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Rate limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
	ErrCodeExternal ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// AppError is a structured error that can be returned to clients
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func InvalidCheckInToken() *AppError {
	return New(ErrCodeInvalidCheckInToken, "Invalid check-in token")
}

func EventNotFound(eventID string) *AppError {
	return New(ErrCodeEventNotFound, "Event not found").WithDetails(map[string]string{"eventId": eventID})
}

func AttendeeNotFound() *AppError {
	return New(ErrCodeAttendeeNotFound, "Attendee not found")
}

func EventAttendeeNotFound(eventID, email string) *AppError {
	return New(ErrCodeEventAttendeeNotFound, "No attendee registered for this event and email").
		WithDetails(map[string]string{"eventId": eventID, "email": email})
}

func AlreadyCheckedIn() *AppError {
	return New(ErrCodeAlreadyCheckedIn, "Attendee has already checked in")
}

func EventNotActive() *AppError {
	return New(ErrCodeEventNotActive, "Event is not active")
}

func CheckInNotStarted() *AppError {
	return New(ErrCodeCheckInNotStarted, "Check-in has not started yet")
}

func CheckInEnded() *AppError {
	return New(ErrCodeCheckInEnded, "Check-in window has ended")
}

func QRGenerationFailed(cause error) *AppError {
	return Wrap(ErrCodeQRGenerationFailed, "Failed to generate QR code", cause)
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func InvalidInput(field string, reason string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("Invalid %s: %s", field, reason))
}

func MissingRequired(field string) *AppError {
	return New(ErrCodeMissingRequired, fmt.Sprintf("%s is required", field))
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func RateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "Rate limit exceeded")
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func Database(cause error) *AppError {
	return Wrap(ErrCodeDatabase, "Database error", cause)
}

func External(service string, cause error) *AppError {
	return Wrap(ErrCodeExternal, fmt.Sprintf("External service error: %s", service), cause)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
