// Package error defines domain-specific errors for the Manna application.
package error

import "errors"

// Categorization suggestion domain errors.
var (
	// ErrSuggestionNotFound is returned when a suggestion is not found.
	ErrSuggestionNotFound = errors.New("suggestion not found")

	// ErrNotAuthorizedSuggestion is returned when a user does not own a suggestion.
	ErrNotAuthorizedSuggestion = errors.New("not authorized to access suggestion")

	// ErrSuggestionNotPending is returned when approving or rejecting a
	// suggestion that was already resolved.
	ErrSuggestionNotPending = errors.New("suggestion is not pending")

	// ErrCategorizationRunning is returned when a categorization job is
	// already running for the user.
	ErrCategorizationRunning = errors.New("categorization already in progress")

	// ErrNoUncategorized is returned when there is nothing to categorize.
	ErrNoUncategorized = errors.New("no uncategorized transactions")
)

// CategorizationErrorCode defines error codes for categorization errors.
// Format: SUG-XXYYYY where XX is category and YYYY is specific error.
type CategorizationErrorCode string

const (
	ErrCodeSuggestionNotFound      CategorizationErrorCode = "SUG-010001"
	ErrCodeNotAuthorizedSuggestion CategorizationErrorCode = "SUG-010002"
	ErrCodeSuggestionNotPending    CategorizationErrorCode = "SUG-010003"
	ErrCodeCategorizationRunning   CategorizationErrorCode = "SUG-020001"
	ErrCodeNoUncategorized         CategorizationErrorCode = "SUG-020002"
)

// CategorizationError represents a categorization error with code and message.
type CategorizationError struct {
	Code    CategorizationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategorizationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategorizationError) Unwrap() error {
	return e.Err
}

// NewCategorizationError creates a new CategorizationError.
func NewCategorizationError(code CategorizationErrorCode, message string, err error) *CategorizationError {
	return &CategorizationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
