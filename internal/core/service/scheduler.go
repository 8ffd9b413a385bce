package service

import (
	"fmt"

	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/core/verifier"
	"github.com/payflow/payment-engine/internal/port/output"
	"go.uber.org/zap"
)

// VerificationScheduler reacts to created payments: it selects the applicable
// verifiers, persists one SCHEDULED verification per match, dispatches each
// for execution, and moves the payment out of NEW. It never executes a
// verifier itself.
type VerificationScheduler struct {
	paymentRepo      output.PaymentRepository
	verificationRepo output.VerificationRepository
	events           output.EventPublisher
	verifiers        *verifier.Registry
	logger           *zap.Logger
}

// NewVerificationScheduler creates a verification scheduler
func NewVerificationScheduler(
	paymentRepo output.PaymentRepository,
	verificationRepo output.VerificationRepository,
	events output.EventPublisher,
	verifiers *verifier.Registry,
	logger *zap.Logger,
) *VerificationScheduler {
	return &VerificationScheduler{
		paymentRepo:      paymentRepo,
		verificationRepo: verificationRepo,
		events:           events,
		verifiers:        verifiers,
		logger:           logger,
	}
}

// HandlePaymentCreated schedules verifications for a freshly created payment.
// Scheduling is fail-closed: any error rejects the payment rather than
// leaving it in NEW.
func (s *VerificationScheduler) HandlePaymentCreated(event core.PaymentCreatedEvent) {
	payment := event.Payment
	if err := s.schedule(&payment); err != nil {
		s.logger.Error("cannot schedule payment verifications, rejecting payment",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
		if serr := s.paymentRepo.SetStatus(payment.ID, core.PaymentStatusRejected); serr != nil {
			s.logger.Error("failed to reject unschedulable payment",
				zap.String("payment_id", payment.ID.String()),
				zap.Error(serr))
		}
	}
}

func (s *VerificationScheduler) schedule(payment *core.Payment) error {
	var scheduled []core.Verification
	for _, v := range s.verifiers.All() {
		applies, err := v.ShouldVerify(payment)
		if err != nil {
			return fmt.Errorf("failed to select verifiers: %w", err)
		}
		if !applies {
			continue
		}
		saved, err := s.verificationRepo.Save(&core.Verification{
			PaymentID: payment.ID,
			Type:      v.Type(),
			Status:    core.VerificationStatusScheduled,
		})
		if err != nil {
			return fmt.Errorf("failed to persist %s verification: %w", v.Type(), err)
		}
		scheduled = append(scheduled, *saved)
	}

	if len(scheduled) == 0 {
		s.logger.Info("no verifications to schedule, accepting payment",
			zap.String("payment_id", payment.ID.String()))
		return s.paymentRepo.SetStatus(payment.ID, core.PaymentStatusAccepted)
	}

	for _, v := range scheduled {
		s.logger.Info("dispatching verification",
			zap.String("payment_id", payment.ID.String()),
			zap.Int64("verification_id", v.ID),
			zap.String("type", string(v.Type)))
		if err := s.events.PublishReadyForVerification(core.ReadyForVerificationEvent{
			Payment:      *payment,
			Verification: v,
		}); err != nil {
			return fmt.Errorf("failed to dispatch %s verification: %w", v.Type, err)
		}
	}

	// One status write after all dispatches, not one per verification.
	return s.paymentRepo.SetStatus(payment.ID, core.PaymentStatusVerifying)
}
