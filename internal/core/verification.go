package core

import "github.com/google/uuid"

// VerificationStatus represents the status of a single verification
type VerificationStatus string

const (
	VerificationStatusScheduled VerificationStatus = "SCHEDULED"
	VerificationStatusPassed    VerificationStatus = "PASSED"
	VerificationStatusFailed    VerificationStatus = "FAILED"
	VerificationStatusError     VerificationStatus = "ERROR"
)

// IsTerminal reports whether the verification reached an outcome.
// Once a verification leaves SCHEDULED it never goes back.
func (s VerificationStatus) IsTerminal() bool {
	return s == VerificationStatusPassed || s == VerificationStatusFailed || s == VerificationStatusError
}

// VerificationType identifies which check a verification performs
type VerificationType string

const (
	VerificationTypeAccountStatus VerificationType = "ACCOUNT_STATUS_CHECK"
	VerificationTypeCreditLimit   VerificationType = "CREDIT_LIMIT_CHECK"
	VerificationTypeFraud         VerificationType = "FRAUD_CHECK"
)

// Verification is one scheduled instance of a verifier applied to one payment.
// The ID is assigned by the store on first save.
type Verification struct {
	ID        int64
	PaymentID uuid.UUID
	Type      VerificationType
	Status    VerificationStatus
}
