package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports missing or malformed caller input. Details carry
// the offending field list so the caller can correct the request.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewSLAPolicyNotFound reports a configuration gap: no policy row exists for
// the (plan, priority) pair. The configured table travels in the details so an
// operator can see what is configured and fix it.
func NewSLAPolicyNotFound(plan, priority string, available any) error {
	return NewDomainError(
		"SLA_POLICY_NOT_FOUND",
		fmt.Sprintf("no SLA policy configured for plan=%q priority=%q", plan, priority),
		http.StatusBadRequest,
		map[string]any{"available": available},
	)
}

// NewInvalidPolicy reports a malformed SLA policy row (non-positive hours).
func NewInvalidPolicy(plan, priority string) error {
	return NewDomainError(
		"INVALID_SLA_POLICY",
		fmt.Sprintf("SLA policy for plan=%q priority=%q has non-positive hours", plan, priority),
		http.StatusUnprocessableEntity,
		nil,
	)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

// NewPermissionDenied reports an authorization failure without leaking any
// internal detail.
func NewPermissionDenied() error {
	return NewDomainError("FORBIDDEN", "access denied", http.StatusForbidden, nil)
}

// NewConflict reports a persistence-level race (two updates hitting the same
// ticket). The caller is expected to retry.
func NewConflict(message string) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
