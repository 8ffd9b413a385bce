package service

import (
	"context"
	"time"

	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/core/verifier"
	"github.com/payflow/payment-engine/internal/port/output"
	"go.uber.org/zap"
)

// DefaultVerifyTimeout bounds a single verifier invocation. An expired
// deadline surfaces as an ERROR outcome.
const DefaultVerifyTimeout = 5 * time.Second

// VerificationRunner reacts to dispatched verifications: it resolves the
// matching verifier and invokes it. Whatever happens, exactly one completion
// event is emitted; a crashing verifier must never leave a verification
// stuck at SCHEDULED.
type VerificationRunner struct {
	verifiers *verifier.Registry
	events    output.EventPublisher
	timeout   time.Duration
	logger    *zap.Logger
}

// NewVerificationRunner creates a verification runner. A non-positive timeout
// falls back to DefaultVerifyTimeout.
func NewVerificationRunner(
	verifiers *verifier.Registry,
	events output.EventPublisher,
	timeout time.Duration,
	logger *zap.Logger,
) *VerificationRunner {
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	return &VerificationRunner{
		verifiers: verifiers,
		events:    events,
		timeout:   timeout,
		logger:    logger,
	}
}

// HandleReadyForVerification runs one verification. The result defaults to
// ERROR unless the verifier returned normally; errors are logged and
// suppressed once the completion event is out.
func (r *VerificationRunner) HandleReadyForVerification(event core.ReadyForVerificationEvent) {
	v := event.Verification
	result := core.VerificationStatusError

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("verifier panicked",
				zap.String("payment_id", event.Payment.ID.String()),
				zap.Int64("verification_id", v.ID),
				zap.String("type", string(v.Type)),
				zap.Any("panic", rec))
			result = core.VerificationStatusError
		}
		if err := r.events.PublishVerificationCompleted(core.VerificationCompletedEvent{
			VerificationID: v.ID,
			PaymentID:      event.Payment.ID,
			Result:         result,
		}); err != nil {
			r.logger.Error("failed to publish verification completion",
				zap.Int64("verification_id", v.ID),
				zap.Error(err))
		}
	}()

	vf, err := r.verifiers.Lookup(v.Type)
	if err != nil {
		// Configuration error: no silent pass, surface through the same
		// completion path as every other failure.
		r.logger.Error("no verifier registered for verification type",
			zap.String("type", string(v.Type)),
			zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	status, err := vf.Verify(ctx, &event.Payment)
	if err != nil {
		r.logger.Error("verification finished with error",
			zap.String("payment_id", event.Payment.ID.String()),
			zap.Int64("verification_id", v.ID),
			zap.String("type", string(v.Type)),
			zap.Error(err))
		return
	}
	result = status
}
