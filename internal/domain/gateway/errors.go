package gateway

import "errors"

var (
	// ErrUnavailable is returned for network failures, timeouts and 5xx
	// responses from the processor. Callers may retry; local state is
	// untouched and reconciliation can always run again later.
	ErrUnavailable = errors.New("payment processor unavailable")

	// ErrIntentNotFound is returned when the processor does not know the intent
	ErrIntentNotFound = errors.New("payment intent not found at processor")

	// ErrRejected is returned when the processor rejects the request itself
	// (4xx other than not-found), e.g. an amount below the processor minimum
	ErrRejected = errors.New("payment processor rejected request")
)
