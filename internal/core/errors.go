package core

import "errors"

var (
	// ErrPaymentNotFound is returned when a payment id resolves to nothing.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrVerificationNotFound is returned when a verification id resolves to nothing.
	ErrVerificationNotFound = errors.New("verification not found")

	// ErrCurrencyMismatch is returned when two money values of different
	// currencies are compared without conversion.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrRateNotFound is returned when no exchange rate is configured for a pair.
	ErrRateNotFound = errors.New("exchange rate not found")

	// ErrVerifierNotFound is returned when no verifier is registered for a
	// verification type.
	ErrVerifierNotFound = errors.New("verifier not found")

	// ErrTerminalStatus is returned when a status write would leave ACCEPTED
	// or REJECTED, or move a verification back to SCHEDULED.
	ErrTerminalStatus = errors.New("status is terminal")

	// ErrQueueFull is returned by a bounded stage queue with the reject
	// overflow policy.
	ErrQueueFull = errors.New("stage queue is full")
)
