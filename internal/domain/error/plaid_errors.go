// Package error defines domain-specific errors for the Manna application.
package error

import "errors"

// Plaid integration domain errors.
var (
	// ErrItemNotFound is returned when a Plaid item is not found in the system.
	ErrItemNotFound = errors.New("plaid item not found")

	// ErrNotAuthorizedItem is returned when a user does not own the item.
	ErrNotAuthorizedItem = errors.New("not authorized to access plaid item")

	// ErrItemVersionConflict is returned when an optimistic-locking update of
	// the item row matched zero rows because the version moved underneath it.
	ErrItemVersionConflict = errors.New("plaid item was modified concurrently")

	// ErrSyncInProgress is returned when another process holds the sync lock
	// for the item.
	ErrSyncInProgress = errors.New("a sync is already running for this item")

	// ErrPlaidUnavailable is returned when the Plaid API cannot be reached.
	ErrPlaidUnavailable = errors.New("plaid api unavailable")

	// ErrInvalidPublicToken is returned when a public token exchange fails.
	ErrInvalidPublicToken = errors.New("invalid public token")

	// ErrItemLoginRequired is returned when the institution requires the user
	// to re-authenticate before the item can sync again.
	ErrItemLoginRequired = errors.New("bank connection requires re-authentication")

	// ErrTokenDecryptFailed is returned when the stored access token cannot
	// be authenticated and decrypted.
	ErrTokenDecryptFailed = errors.New("stored access token failed decryption")
)

// PlaidErrorCode defines error codes for Plaid integration errors.
// Format: PLD-XXYYYY where XX is category and YYYY is specific error.
type PlaidErrorCode string

const (
	// Item errors (01XXXX)
	ErrCodeItemNotFound      PlaidErrorCode = "PLD-010001"
	ErrCodeNotAuthorizedItem PlaidErrorCode = "PLD-010002"

	// Concurrency errors (02XXXX)
	ErrCodeItemVersionConflict PlaidErrorCode = "PLD-020001"
	ErrCodeSyncInProgress      PlaidErrorCode = "PLD-020002"

	// Upstream errors (03XXXX)
	ErrCodePlaidUnavailable   PlaidErrorCode = "PLD-030001"
	ErrCodeInvalidPublicToken PlaidErrorCode = "PLD-030002"
	ErrCodeItemLoginRequired  PlaidErrorCode = "PLD-030003"

	// Crypto errors (04XXXX)
	ErrCodeTokenDecryptFailed PlaidErrorCode = "PLD-040001"
)

// PlaidError represents a Plaid integration error with code and message.
type PlaidError struct {
	Code    PlaidErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PlaidError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PlaidError) Unwrap() error {
	return e.Err
}

// NewPlaidError creates a new PlaidError with the given code and message.
func NewPlaidError(code PlaidErrorCode, message string, err error) *PlaidError {
	return &PlaidError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
