// Package error defines domain-specific errors for the Manna application.
package error

import "errors"

// Reconciliation domain errors.
var (
	// ErrReconciliationNotFound is returned when a reconciliation link is not found.
	ErrReconciliationNotFound = errors.New("reconciliation link not found")

	// ErrAlreadyLinked is returned when either transaction is already reconciled.
	ErrAlreadyLinked = errors.New("transaction is already reconciled")

	// ErrReconciliationAmountMismatch is returned when a manual link is
	// attempted between transactions whose amounts differ beyond tolerance.
	ErrReconciliationAmountMismatch = errors.New("transaction amounts do not match")

	// ErrSameSourceLink is returned when both transactions come from the same
	// source; reconciliation links a bank-fed row to a manual one.
	ErrSameSourceLink = errors.New("cannot reconcile transactions from the same source")
)

// ReconciliationErrorCode defines error codes for reconciliation errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type ReconciliationErrorCode string

const (
	ErrCodeReconciliationNotFound ReconciliationErrorCode = "REC-010001"
	ErrCodeAlreadyLinked          ReconciliationErrorCode = "REC-010002"
	ErrCodeAmountMismatch         ReconciliationErrorCode = "REC-010003"
	ErrCodeSameSourceLink         ReconciliationErrorCode = "REC-010004"
)

// ReconciliationError represents a reconciliation error with code and message.
type ReconciliationError struct {
	Code    ReconciliationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// NewReconciliationError creates a new ReconciliationError.
func NewReconciliationError(code ReconciliationErrorCode, message string, err error) *ReconciliationError {
	return &ReconciliationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
