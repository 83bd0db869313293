package errors

import (
	"fmt"
	"time"
)

var (
	// Domain errors, returned by the usecase and mapped to responses by the handler
	ErrStaleTimestamp   = StaleTimestamp(10 * time.Minute)
	ErrInvalidTimestamp = InvalidArg("Timestamp is not a valid ISO-8601 date-time")
	ErrInvalidRequest   = InvalidArg("invalid request body")
	ErrInvalidSignature = Unauthorized("Signature is invalid. Not authorized to save device token")
	ErrUserNotFound     = NotFound("user not found")
)

// StaleTimestamp is the rejection for a timestamp outside the freshness
// window.
func StaleTimestamp(window time.Duration) error {
	span := window.String()
	switch {
	case window == time.Minute:
		span = "1 minute"
	case window%time.Minute == 0:
		span = fmt.Sprintf("%d minutes", int(window/time.Minute))
	}
	return OutOfRange(fmt.Sprintf("Timestamp is not within %s of now", span))
}

func ErrSaveFailed(cause error) error {
	return Wrap(CodeInternal, "failed to save user info", cause)
}

func ErrLookupFailed(cause error) error {
	return Wrap(CodeInternal, "failed to load user info", cause)
}
