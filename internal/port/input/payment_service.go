package input

import (
	"time"

	"github.com/google/uuid"
	"github.com/payflow/payment-engine/internal/core"
	"github.com/shopspring/decimal"
)

// PaymentService is an input port (primary port) for payment operations
// Primary adapters (HTTP handlers) will use this
type PaymentService interface {
	// InitializePayment creates a new payment and hands it to the
	// verification pipeline
	InitializePayment(req InitializePaymentRequest) (*PaymentResponse, error)

	// GetPayment retrieves a payment by ID
	GetPayment(id uuid.UUID) (*PaymentResponse, error)
}

// InitializePaymentRequest represents the request to create a payment
type InitializePaymentRequest struct {
	Amount   decimal.Decimal
	Currency core.Currency
	Method   core.PaymentMethod
	Merchant string
}

// VerificationResponse represents one verification on a payment
type VerificationResponse struct {
	ID     int64
	Type   core.VerificationType
	Status core.VerificationStatus
}

// PaymentResponse represents the response for a payment
type PaymentResponse struct {
	ID            uuid.UUID
	Amount        decimal.Decimal
	Currency      core.Currency
	Method        core.PaymentMethod
	Merchant      string
	Status        core.PaymentStatus
	Verifications []VerificationResponse
	CreatedAt     time.Time
}
