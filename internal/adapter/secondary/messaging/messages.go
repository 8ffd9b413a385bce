package messaging

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/payflow/payment-engine/internal/core"
	"github.com/shopspring/decimal"
)

// Wire representations of the pipeline events. Kept separate from the core
// types so the queue payload format does not move with the domain model.

type paymentMessage struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Method    string          `json:"method"`
	Merchant  string          `json:"merchant"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type verificationMessage struct {
	ID        int64  `json:"id"`
	PaymentID string `json:"payment_id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
}

type paymentCreatedMessage struct {
	Payment paymentMessage `json:"payment"`
}

type readyForVerificationMessage struct {
	Payment      paymentMessage      `json:"payment"`
	Verification verificationMessage `json:"verification"`
}

type verificationCompletedMessage struct {
	VerificationID int64  `json:"verification_id"`
	PaymentID      string `json:"payment_id"`
	Result         string `json:"result"`
}

func toPaymentMessage(p core.Payment) paymentMessage {
	return paymentMessage{
		ID:        p.ID.String(),
		Amount:    p.Money.Amount,
		Currency:  string(p.Money.Currency),
		Method:    string(p.Method),
		Merchant:  p.Merchant,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

func toVerificationMessage(v core.Verification) verificationMessage {
	return verificationMessage{
		ID:        v.ID,
		PaymentID: v.PaymentID.String(),
		Type:      string(v.Type),
		Status:    string(v.Status),
	}
}

func (m paymentMessage) toCore() (*core.Payment, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", m.ID, err)
	}
	return &core.Payment{
		ID:        id,
		Money:     core.NewMoney(m.Amount, core.Currency(m.Currency)),
		Method:    core.PaymentMethod(m.Method),
		Merchant:  m.Merchant,
		Status:    core.PaymentStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}, nil
}

func (m verificationMessage) toCore() (*core.Verification, error) {
	paymentID, err := uuid.Parse(m.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", m.PaymentID, err)
	}
	return &core.Verification{
		ID:        m.ID,
		PaymentID: paymentID,
		Type:      core.VerificationType(m.Type),
		Status:    core.VerificationStatus(m.Status),
	}, nil
}

func (m verificationCompletedMessage) toCore() (*core.VerificationCompletedEvent, error) {
	paymentID, err := uuid.Parse(m.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", m.PaymentID, err)
	}
	return &core.VerificationCompletedEvent{
		VerificationID: m.VerificationID,
		PaymentID:      paymentID,
		Result:         core.VerificationStatus(m.Result),
	}, nil
}
