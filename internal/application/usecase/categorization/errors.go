package categorization

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error code constants for categorization run failures.
const (
	RunErrCodeUnavailable = "PROVIDER_UNAVAILABLE"
	RunErrCodeRateLimited = "PROVIDER_RATE_LIMITED"
	RunErrCodeAuth        = "PROVIDER_AUTH_ERROR"
	RunErrCodeTimeout     = "RUN_TIMEOUT"
	RunErrCodeParse       = "PROVIDER_PARSE_ERROR"
	RunErrCodeUnknown     = "RUN_UNKNOWN_ERROR"
)

var runErrorMessages = map[string]string{
	RunErrCodeUnavailable: "The suggestion service is temporarily unavailable. Try again later.",
	RunErrCodeRateLimited: "Request limit reached. Wait a few minutes and try again.",
	RunErrCodeAuth:        "The suggestion service is misconfigured. Contact support.",
	RunErrCodeTimeout:     "Processing took longer than expected. Try again.",
	RunErrCodeParse:       "Could not read the suggestion service response. Try again.",
	RunErrCodeUnknown:     "An unexpected error occurred during processing. Try again.",
}

// classifyRunError converts a raw error into a user-facing RunError.
func classifyRunError(err error) *RunError {
	now := time.Now().UTC()
	errStr := strings.ToLower(err.Error())

	build := func(code string, retryable bool) *RunError {
		return &RunError{
			Code:      code,
			Message:   runErrorMessages[code],
			Retryable: retryable,
			Timestamp: now,
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return build(RunErrCodeTimeout, true)

	case strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "429") || strings.Contains(errStr, "resource exhausted"):
		return build(RunErrCodeRateLimited, true)

	case strings.Contains(errStr, "401") || strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "invalid api key") || strings.Contains(errStr, "unauthorized"):
		return build(RunErrCodeAuth, false)

	case strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "dial") || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "unavailable") || strings.Contains(errStr, "503"):
		return build(RunErrCodeUnavailable, true)

	case strings.Contains(errStr, "parse") || strings.Contains(errStr, "json") ||
		strings.Contains(errStr, "unmarshal") || strings.Contains(errStr, "decode"):
		return build(RunErrCodeParse, true)

	default:
		return build(RunErrCodeUnknown, true)
	}
}
