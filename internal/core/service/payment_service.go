package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/port/input"
	"github.com/payflow/payment-engine/internal/port/output"
	"go.uber.org/zap"
)

// PaymentServiceImpl implements the PaymentService input port
type PaymentServiceImpl struct {
	paymentRepo output.PaymentRepository
	events      output.EventPublisher
	logger      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo output.PaymentRepository,
	events output.EventPublisher,
	logger *zap.Logger,
) input.PaymentService {
	return &PaymentServiceImpl{
		paymentRepo: paymentRepo,
		events:      events,
		logger:      logger,
	}
}

// InitializePayment creates a new payment in status NEW and hands it to the
// verification pipeline. The terminal outcome is only visible by re-reading
// the payment later.
func (s *PaymentServiceImpl) InitializePayment(req input.InitializePaymentRequest) (*input.PaymentResponse, error) {
	// Validate amount
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	// Validate currency
	if !req.Currency.IsValid() {
		return nil, fmt.Errorf("currency must be one of EUR, USD, GBP")
	}

	// Validate payment method
	if !req.Method.IsValid() {
		return nil, fmt.Errorf("unknown payment method: %s", req.Method)
	}

	// Validate merchant
	req.Merchant = strings.TrimSpace(req.Merchant)
	if req.Merchant == "" {
		return nil, fmt.Errorf("merchant is required")
	}

	payment := &core.Payment{
		ID:       uuid.New(),
		Money:    core.NewMoney(req.Amount, req.Currency),
		Method:   req.Method,
		Merchant: req.Merchant,
		Status:   core.PaymentStatusNew,
	}

	saved, err := s.paymentRepo.Save(payment)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.logger.Info("created new payment",
		zap.String("payment_id", saved.ID.String()),
		zap.String("method", string(saved.Method)),
		zap.String("amount", saved.Money.String()))

	// The payment is already persisted, so a dispatch failure must not leave
	// it sitting in NEW with nothing scheduled: reject it instead.
	if err := s.events.PublishPaymentCreated(core.PaymentCreatedEvent{Payment: *saved}); err != nil {
		s.logger.Error("failed to dispatch created payment, rejecting",
			zap.String("payment_id", saved.ID.String()),
			zap.Error(err))
		if serr := s.paymentRepo.SetStatus(saved.ID, core.PaymentStatusRejected); serr != nil {
			s.logger.Error("failed to reject undispatched payment",
				zap.String("payment_id", saved.ID.String()),
				zap.Error(serr))
		}
		saved.Status = core.PaymentStatusRejected
	}

	return toPaymentResponse(saved), nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentServiceImpl) GetPayment(id uuid.UUID) (*input.PaymentResponse, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return toPaymentResponse(payment), nil
}

func toPaymentResponse(p *core.Payment) *input.PaymentResponse {
	verifications := make([]input.VerificationResponse, 0, len(p.Verifications))
	for _, v := range p.Verifications {
		verifications = append(verifications, input.VerificationResponse{
			ID:     v.ID,
			Type:   v.Type,
			Status: v.Status,
		})
	}
	return &input.PaymentResponse{
		ID:            p.ID,
		Amount:        p.Money.Amount,
		Currency:      p.Money.Currency,
		Method:        p.Method,
		Merchant:      p.Merchant,
		Status:        p.Status,
		Verifications: verifications,
		CreatedAt:     p.CreatedAt,
	}
}
