// Package errors provides custom error types for the Riskhub API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrInvalidRole    = &AppError{Code: "INVALID_ROLE", Message: "Unknown user role", StatusCode: http.StatusBadRequest}
)

// Risk errors.
var (
	ErrRiskNotFound        = &AppError{Code: "RISK_NOT_FOUND", Message: "Risk not found", StatusCode: http.StatusNotFound}
	ErrRiskHasActiveWork   = &AppError{Code: "RISK_HAS_ACTIVE_ASSIGNMENTS", Message: "Risk has assignments that are not completed or cancelled", StatusCode: http.StatusConflict}
	ErrInvalidRiskStatus   = &AppError{Code: "INVALID_RISK_STATUS", Message: "Unknown risk status", StatusCode: http.StatusBadRequest}
	ErrInvalidRiskCategory = &AppError{Code: "INVALID_RISK_CATEGORY", Message: "Unknown risk category", StatusCode: http.StatusBadRequest}
	ErrInvalidRiskSource   = &AppError{Code: "INVALID_RISK_SOURCE", Message: "Unknown risk source", StatusCode: http.StatusBadRequest}
	ErrDescriptionLength   = &AppError{Code: "INVALID_DESCRIPTION_LENGTH", Message: "Risk description must be between 20 and 1000 characters", StatusCode: http.StatusBadRequest}
	ErrIdentifierExhausted = &AppError{Code: "IDENTIFIER_ALLOCATION_FAILED", Message: "Could not allocate a unique identifier, try again", StatusCode: http.StatusInternalServerError}
)

// Assignment errors.
var (
	ErrAssignmentNotFound      = &AppError{Code: "ASSIGNMENT_NOT_FOUND", Message: "Assignment not found", StatusCode: http.StatusNotFound}
	ErrInvalidAssignmentStatus = &AppError{Code: "INVALID_ASSIGNMENT_STATUS", Message: "Unknown assignment status", StatusCode: http.StatusBadRequest}
	ErrInvalidPriority         = &AppError{Code: "INVALID_PRIORITY", Message: "Priority must be Critical, High, Medium, or Low", StatusCode: http.StatusBadRequest}
	ErrDeadlineInPast          = &AppError{Code: "DEADLINE_IN_PAST", Message: "Deadline must be in the future", StatusCode: http.StatusBadRequest}
)
