package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeRateLimit    ErrorType = "rate_limit"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is. Two domain errors match when type and message agree,
// so errors.Is(err, ErrCourseNotFound) does not match ErrGroupNotFound.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithDetail returns a copy of the error carrying an extra detail.
// The package-level sentinels are never mutated.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Type: e.Type, Message: e.Message, Err: e.Err, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables

var (
	// Not Found Errors
	ErrUserNotFound       = NewDomainError(ErrorTypeNotFound, "user not found", nil)
	ErrCourseNotFound     = NewDomainError(ErrorTypeNotFound, "course not found", nil)
	ErrGroupNotFound      = NewDomainError(ErrorTypeNotFound, "group not found", nil)
	ErrEnrollmentNotFound = NewDomainError(ErrorTypeNotFound, "enrollment not found", nil)
	ErrMeetingNotFound    = NewDomainError(ErrorTypeNotFound, "meeting not found", nil)
	ErrGradeNotFound      = NewDomainError(ErrorTypeNotFound, "grade not found", nil)

	// Validation Errors
	ErrInvalidInput       = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidRole        = NewDomainError(ErrorTypeValidation, "invalid role", nil)
	ErrInvalidCredits     = NewDomainError(ErrorTypeValidation, "credits out of range", nil)
	ErrInvalidCapacity    = NewDomainError(ErrorTypeValidation, "capacity must be positive", nil)
	ErrInvalidSchedule    = NewDomainError(ErrorTypeValidation, "meeting must end after it starts", nil)
	ErrInvalidGrade       = NewDomainError(ErrorTypeValidation, "grade out of range", nil)
	ErrInvalidAttendance  = NewDomainError(ErrorTypeValidation, "invalid attendance status", nil)
	ErrTeacherRequired    = NewDomainError(ErrorTypeValidation, "assigned user is not a teacher", nil)
	ErrStudentRequired    = NewDomainError(ErrorTypeValidation, "enrolled user is not a student", nil)
	ErrStudentNotEnrolled = NewDomainError(ErrorTypeValidation, "student is not enrolled in the group", nil)

	// Authorization Errors
	ErrUnauthorized       = NewDomainError(ErrorTypeUnauthorized, "unauthorized", nil)
	ErrInvalidCredentials = NewDomainError(ErrorTypeUnauthorized, "invalid email or password", nil)

	// Permission Errors
	ErrForbidden               = NewDomainError(ErrorTypeForbidden, "access forbidden", nil)
	ErrInsufficientPermissions = NewDomainError(ErrorTypeForbidden, "insufficient permissions", nil)

	// Rate Limit Errors
	ErrTooManyLoginAttempts = NewDomainError(ErrorTypeRateLimit, "too many failed login attempts", nil)

	// Conflict Errors
	ErrDuplicateEmail      = NewDomainError(ErrorTypeConflict, "email already exists", nil)
	ErrDuplicateCourseCode = NewDomainError(ErrorTypeConflict, "course code already exists", nil)
	ErrDuplicateGroup      = NewDomainError(ErrorTypeConflict, "group already exists for this course and semester", nil)
	ErrAlreadyEnrolled     = NewDomainError(ErrorTypeConflict, "student already enrolled in group", nil)
	ErrGroupFull           = NewDomainError(ErrorTypeConflict, "group is at capacity", nil)
	ErrStillReferenced     = NewDomainError(ErrorTypeConflict, "resource is still referenced by other records", nil)

	// Internal Errors
	ErrInternal          = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError     = NewDomainError(ErrorTypeInternal, "database error", nil)
	ErrTransactionFailed = NewDomainError(ErrorTypeInternal, "transaction failed", nil)
)

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	return GetErrorType(err) == ErrorTypeRateLimit
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
