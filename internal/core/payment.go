package core

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusNew       PaymentStatus = "NEW"
	PaymentStatusVerifying PaymentStatus = "VERIFYING"
	PaymentStatusAccepted  PaymentStatus = "ACCEPTED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// IsTerminal reports whether the status allows no further transitions.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusAccepted || s == PaymentStatusRejected
}

// PaymentMethod represents how the customer pays
type PaymentMethod string

const (
	PaymentMethodPayNow        PaymentMethod = "PAY_NOW"
	PaymentMethodPayOver3Month PaymentMethod = "PAY_OVER_3_MONTHS"
	PaymentMethodPayOver6Month PaymentMethod = "PAY_OVER_6_MONTHS"
)

// IsPayLater reports whether the method defers (part of) the charge.
func (m PaymentMethod) IsPayLater() bool {
	return m == PaymentMethodPayOver3Month || m == PaymentMethodPayOver6Month
}

// IsValid checks the method against the fixed enumeration
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodPayNow, PaymentMethodPayOver3Month, PaymentMethodPayOver6Month:
		return true
	}
	return false
}

// Payment represents a payment domain entity
type Payment struct {
	ID            uuid.UUID
	Money         Money
	Method        PaymentMethod
	Merchant      string
	Status        PaymentStatus
	Verifications []Verification
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsVerifying checks if payment is waiting for verification results
func (p *Payment) IsVerifying() bool {
	return p.Status == PaymentStatusVerifying
}

// IsTerminal checks if payment is in a terminal state
func (p *Payment) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// AllVerificationsPassed reports whether every verification on record is PASSED.
// False when there are no verifications at all.
func (p *Payment) AllVerificationsPassed() bool {
	if len(p.Verifications) == 0 {
		return false
	}
	for _, v := range p.Verifications {
		if v.Status != VerificationStatusPassed {
			return false
		}
	}
	return true
}
