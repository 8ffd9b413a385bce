package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/core/verifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readyEvent(v verifier.Verifier) core.ReadyForVerificationEvent {
	payment := newTestPayment("50.00", core.CurrencyEUR, core.PaymentMethodPayOver3Month)
	payment.Status = core.PaymentStatusVerifying
	typ := core.VerificationTypeAccountStatus
	if v != nil {
		typ = v.Type()
	}
	return core.ReadyForVerificationEvent{
		Payment: payment,
		Verification: core.Verification{
			ID:        7,
			PaymentID: payment.ID,
			Type:      typ,
			Status:    core.VerificationStatusScheduled,
		},
	}
}

// TestRunner_EmitsResultOnSuccess verifies a normal verifier run emits the
// returned status.
func TestRunner_EmitsResultOnSuccess(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{typ: core.VerificationTypeAccountStatus, result: core.VerificationStatusPassed}
	publisher := &capturePublisher{}
	r := NewVerificationRunner(verifier.NewRegistry(v), publisher, 0, zap.NewNop())

	event := readyEvent(v)
	r.HandleReadyForVerification(event)

	completed := publisher.completedEvents()
	require.Len(t, completed, 1)
	assert.Equal(t, event.Verification.ID, completed[0].VerificationID)
	assert.Equal(t, event.Payment.ID, completed[0].PaymentID)
	assert.Equal(t, core.VerificationStatusPassed, completed[0].Result)
}

// TestRunner_VerifierErrorEmitsError verifies an erroring verifier still
// produces exactly one completion, with result ERROR.
func TestRunner_VerifierErrorEmitsError(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{typ: core.VerificationTypeFraud, verifyErr: errors.New("model unavailable")}
	publisher := &capturePublisher{}
	r := NewVerificationRunner(verifier.NewRegistry(v), publisher, 0, zap.NewNop())

	r.HandleReadyForVerification(readyEvent(v))

	completed := publisher.completedEvents()
	require.Len(t, completed, 1)
	assert.Equal(t, core.VerificationStatusError, completed[0].Result)
}

// TestRunner_PanickingVerifierEmitsError verifies a crashing verifier never
// leaves a verification stuck at SCHEDULED.
func TestRunner_PanickingVerifierEmitsError(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{
		typ: core.VerificationTypeCreditLimit,
		verify: func(context.Context, *core.Payment) (core.VerificationStatus, error) {
			panic("boom")
		},
	}
	publisher := &capturePublisher{}
	r := NewVerificationRunner(verifier.NewRegistry(v), publisher, 0, zap.NewNop())

	require.NotPanics(t, func() {
		r.HandleReadyForVerification(readyEvent(v))
	})

	completed := publisher.completedEvents()
	require.Len(t, completed, 1)
	assert.Equal(t, core.VerificationStatusError, completed[0].Result)
}

// TestRunner_UnknownVerifierEmitsError verifies a missing registry entry is
// a fail-closed ERROR, not a silent pass.
func TestRunner_UnknownVerifierEmitsError(t *testing.T) {
	t.Parallel()

	publisher := &capturePublisher{}
	r := NewVerificationRunner(verifier.NewRegistry(), publisher, 0, zap.NewNop())

	r.HandleReadyForVerification(readyEvent(nil))

	completed := publisher.completedEvents()
	require.Len(t, completed, 1)
	assert.Equal(t, core.VerificationStatusError, completed[0].Result)
}

// TestRunner_TimeoutEmitsError verifies a verifier overrunning its deadline
// maps to ERROR.
func TestRunner_TimeoutEmitsError(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{
		typ: core.VerificationTypeCreditLimit,
		verify: func(ctx context.Context, _ *core.Payment) (core.VerificationStatus, error) {
			<-ctx.Done()
			return core.VerificationStatusError, ctx.Err()
		},
	}
	publisher := &capturePublisher{}
	r := NewVerificationRunner(verifier.NewRegistry(v), publisher, 10*time.Millisecond, zap.NewNop())

	r.HandleReadyForVerification(readyEvent(v))

	completed := publisher.completedEvents()
	require.Len(t, completed, 1)
	assert.Equal(t, core.VerificationStatusError, completed[0].Result)
}
