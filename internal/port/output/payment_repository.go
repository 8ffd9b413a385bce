package output

import (
	"github.com/google/uuid"
	"github.com/payflow/payment-engine/internal/core"
)

// PaymentRepository is an output port (secondary port) for payment data access
// Secondary adapters (database implementations) will implement this
type PaymentRepository interface {
	// Save persists a payment, assigning its ID on first save
	Save(payment *core.Payment) (*core.Payment, error)

	// GetByID retrieves a payment with its verifications.
	// Returns core.ErrPaymentNotFound when absent.
	GetByID(id uuid.UUID) (*core.Payment, error)

	// SetStatus transitions a payment's status. Writes that would overwrite a
	// terminal status fail with core.ErrTerminalStatus; implementations must
	// make the check-and-write atomic.
	SetStatus(id uuid.UUID, status core.PaymentStatus) error
}
