package core

import "github.com/google/uuid"

// PaymentCreatedEvent signals that a new payment was persisted and is ready
// for verification scheduling.
type PaymentCreatedEvent struct {
	Payment Payment
}

// ReadyForVerificationEvent signals that a specific verification is ready to run.
type ReadyForVerificationEvent struct {
	Payment      Payment
	Verification Verification
}

// VerificationCompletedEvent carries a verification's terminal outcome.
type VerificationCompletedEvent struct {
	VerificationID int64
	PaymentID      uuid.UUID
	Result         VerificationStatus
}
