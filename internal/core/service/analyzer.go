package service

import (
	"errors"
	"fmt"

	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/port/output"
	"go.uber.org/zap"
)

// VerificationAnalyzer reacts to completed verifications: it persists each
// result and re-derives the owning payment's aggregate status. Completions
// arrive in any order and from concurrent workers, so the read-decide-write
// sequence is serialized per payment.
type VerificationAnalyzer struct {
	paymentRepo      output.PaymentRepository
	verificationRepo output.VerificationRepository
	locks            keyedLock
	logger           *zap.Logger
}

// NewVerificationAnalyzer creates a verification analyzer
func NewVerificationAnalyzer(
	paymentRepo output.PaymentRepository,
	verificationRepo output.VerificationRepository,
	logger *zap.Logger,
) *VerificationAnalyzer {
	return &VerificationAnalyzer{
		paymentRepo:      paymentRepo,
		verificationRepo: verificationRepo,
		logger:           logger,
	}
}

// HandleVerificationCompleted records one verification outcome and applies
// the payment state machine.
func (a *VerificationAnalyzer) HandleVerificationCompleted(event core.VerificationCompletedEvent) {
	if err := a.analyze(event); err != nil {
		if errors.Is(err, core.ErrPaymentNotFound) {
			// A completion for a payment that no longer exists means stored
			// state has desynchronized; nothing downstream can repair it.
			a.logger.DPanic("verification completed for missing payment",
				zap.String("payment_id", event.PaymentID.String()),
				zap.Int64("verification_id", event.VerificationID),
				zap.Error(err))
			return
		}
		a.logger.Error("failed to analyze verification result",
			zap.String("payment_id", event.PaymentID.String()),
			zap.Int64("verification_id", event.VerificationID),
			zap.Error(err))
	}
}

func (a *VerificationAnalyzer) analyze(event core.VerificationCompletedEvent) error {
	unlock := a.locks.Lock(event.PaymentID)
	defer unlock()

	if err := a.verificationRepo.UpdateStatus(event.VerificationID, event.Result); err != nil {
		return fmt.Errorf("failed to record verification result: %w", err)
	}

	// Decide from a fresh read, never from the event's snapshot.
	payment, err := a.paymentRepo.GetByID(event.PaymentID)
	if err != nil {
		return err
	}

	if payment.IsTerminal() {
		a.logger.Debug("ignoring late completion for settled payment",
			zap.String("payment_id", payment.ID.String()),
			zap.Int64("verification_id", event.VerificationID))
		return nil
	}

	if event.Result != core.VerificationStatusPassed {
		a.logger.Info("rejecting payment",
			zap.String("payment_id", payment.ID.String()),
			zap.String("result", string(event.Result)))
		return a.paymentRepo.SetStatus(payment.ID, core.PaymentStatusRejected)
	}

	if payment.AllVerificationsPassed() {
		a.logger.Info("accepting payment",
			zap.String("payment_id", payment.ID.String()))
		return a.paymentRepo.SetStatus(payment.ID, core.PaymentStatusAccepted)
	}
	return nil
}
