package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
// Cross-tenant lookups return this same error so callers cannot probe for
// the existence of another org's data.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks the role required for the action.
var ErrForbidden = errors.New("forbidden")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// AppError carries an HTTP status code alongside a human readable message
// and the wrapped cause. Handlers translate it into a JSON error body.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel wrapped inside an AppError.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewAppError creates a generic AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationFailedError creates a 400 AppError wrapping ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewConflictError creates a 409 AppError wrapping ErrDuplicate.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

// NewAuthError creates a 401 AppError wrapping ErrUnauthorized.
func NewAuthError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message, Err: ErrUnauthorized}
}

// NewForbiddenError creates a 403 AppError wrapping ErrForbidden.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

// Reconciliation lifecycle errors. These map 1:1 onto the error taxonomy the
// dashboard renders: precondition failures when starting a run, illegal
// status changes on runs/issues/documents, report build failures and upload
// rejections.
var (
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrGenerationFailed   = errors.New("report generation failed")
	ErrUploadRejected     = errors.New("upload rejected")
)

// NewPreconditionFailedError creates a 412 AppError wrapping ErrPreconditionFailed.
func NewPreconditionFailedError(message string) *AppError {
	return &AppError{Code: http.StatusPreconditionFailed, Message: message, Err: ErrPreconditionFailed}
}

// NewInvalidTransitionError creates a 400 AppError wrapping ErrInvalidTransition.
func NewInvalidTransitionError(from, to string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

// NewGenerationFailedError creates a 500 AppError wrapping ErrGenerationFailed.
func NewGenerationFailedError(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: fmt.Errorf("%w: %w", ErrGenerationFailed, err)}
}

// NewUploadError creates a 400 AppError wrapping ErrUploadRejected.
func NewUploadError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrUploadRejected}
}
