package payment

import "errors"

var (
	// ErrNotFound is returned when no payment exists for the given intent id
	ErrNotFound = errors.New("payment not found")

	// ErrAlreadyPurchased is returned when a succeeded payment already exists
	// for the (user, course) pair
	ErrAlreadyPurchased = errors.New("course already purchased")

	// ErrInvalidAmount is returned when the price is not a positive finite number
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountTooSmall is returned when the price is below the processor minimum
	ErrAmountTooSmall = errors.New("amount is too small")

	// ErrInvalidStatus is returned when the processor reports a status outside
	// the known set
	ErrInvalidStatus = errors.New("invalid payment status")
)
