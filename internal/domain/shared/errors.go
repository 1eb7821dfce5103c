package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped errors compare against the
// sentinel values below with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error kinds surfaced by the core. None of these are silently corrected:
// they abort the operation. CONCURRENT_MODIFICATION is retryable.
var (
	ErrNotFound               = NewDomainError("NOT_FOUND", "Referenced resource not found")
	ErrAlreadyExists          = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput           = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrTenantMismatch         = NewDomainError("TENANT_MISMATCH", "Referenced resource belongs to a different company")
	ErrInvalidTransition      = NewDomainError("INVALID_TRANSITION", "State transition not allowed from current state")
	ErrInvariantViolation     = NewDomainError("INVARIANT_VIOLATION", "Operation would break a data invariant")
	ErrConcurrentModification = NewDomainError("CONCURRENT_MODIFICATION", "Resource was modified by another transaction")
)

// IsRetryable reports whether the error is a concurrency conflict the caller
// (or the core's bounded retry loop) may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
