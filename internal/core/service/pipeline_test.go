package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payflow/payment-engine/internal/adapter/secondary/eventbus"
	"github.com/payflow/payment-engine/internal/adapter/secondary/rates"
	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/core/verifier"
	"github.com/payflow/payment-engine/internal/port/input"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// End-to-end pipeline tests: the real in-process bus and verifiers over
// in-memory stores, driven through the payment service boundary.

type pipelineFixture struct {
	service  input.PaymentService
	payments *memPaymentRepo
	bus      *eventbus.Bus
}

func startPipeline(t *testing.T, decision verifier.FraudDecision) *pipelineFixture {
	t.Helper()

	logger := zap.NewNop()
	state := newMemState()
	payments := &memPaymentRepo{s: state}
	verifications := &memVerificationRepo{s: state}

	stage := eventbus.PoolConfig{CorePoolSize: 2, MaxPoolSize: 4, QueueCapacity: 32, Overflow: eventbus.OverflowBlock}
	bus := eventbus.New(eventbus.Config{Scheduler: stage, Runner: stage, Analyzer: stage}, logger)
	t.Cleanup(func() { bus.Close() })

	converter := NewCurrencyConverter(rates.NewStaticSource())
	registry := verifier.NewRegistry(
		verifier.NewAccountStatusVerifier(logger),
		verifier.NewCreditLimitVerifier(logger),
		verifier.NewFraudVerifier(converter, decision, logger),
	)

	scheduler := NewVerificationScheduler(payments, verifications, bus, registry, logger)
	runner := NewVerificationRunner(registry, bus, 10*time.Second, logger)
	analyzer := NewVerificationAnalyzer(payments, verifications, logger)
	bus.SubscribePaymentCreated(scheduler.HandlePaymentCreated)
	bus.SubscribeReadyForVerification(runner.HandleReadyForVerification)
	bus.SubscribeVerificationCompleted(analyzer.HandleVerificationCompleted)

	return &pipelineFixture{
		service:  NewPaymentService(payments, bus, logger),
		payments: payments,
		bus:      bus,
	}
}

func (f *pipelineFixture) initialize(t *testing.T, amount string, currency core.Currency, method core.PaymentMethod) uuid.UUID {
	t.Helper()
	resp, err := f.service.InitializePayment(input.InitializePaymentRequest{
		Amount:   decimal.RequireFromString(amount),
		Currency: currency,
		Method:   method,
		Merchant: "acme-store",
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *pipelineFixture) awaitStatus(t *testing.T, id uuid.UUID, want core.PaymentStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.payments.status(id) == want
	}, 15*time.Second, 20*time.Millisecond, "payment never reached %s", want)
}

func pass(*core.Payment) core.VerificationStatus { return core.VerificationStatusPassed }
func fail(*core.Payment) core.VerificationStatus { return core.VerificationStatusFailed }

// TestPipeline_PayNow runs the pay-now scenario: only the account check
// applies, it passes, and the payment is accepted.
func TestPipeline_PayNow(t *testing.T) {
	t.Parallel()

	f := startPipeline(t, pass)
	id := f.initialize(t, "100.00", core.CurrencyUSD, core.PaymentMethodPayNow)

	f.awaitStatus(t, id, core.PaymentStatusAccepted)

	resp, err := f.service.GetPayment(id)
	require.NoError(t, err)
	require.Len(t, resp.Verifications, 1)
	assert.Equal(t, core.VerificationTypeAccountStatus, resp.Verifications[0].Type)
	assert.Equal(t, core.VerificationStatusPassed, resp.Verifications[0].Status)
}

// TestPipeline_PayLaterBelowFraudThreshold runs the small pay-later scenario:
// fraud does not apply, account and credit checks pass, accepted.
func TestPipeline_PayLaterBelowFraudThreshold(t *testing.T) {
	t.Parallel()

	f := startPipeline(t, fail) // fraud would fail, but must never run
	id := f.initialize(t, "5.00", core.CurrencyEUR, core.PaymentMethodPayOver3Month)

	f.awaitStatus(t, id, core.PaymentStatusAccepted)

	resp, err := f.service.GetPayment(id)
	require.NoError(t, err)
	require.Len(t, resp.Verifications, 2)
	for _, v := range resp.Verifications {
		assert.NotEqual(t, core.VerificationTypeFraud, v.Type)
		assert.Equal(t, core.VerificationStatusPassed, v.Status)
	}
}

// TestPipeline_PayLaterFraudFails runs the large pay-later scenario: three
// checks are scheduled, fraud fails, and the payment ends rejected no matter
// how the others land.
func TestPipeline_PayLaterFraudFails(t *testing.T) {
	t.Parallel()

	f := startPipeline(t, fail)
	id := f.initialize(t, "50.00", core.CurrencyEUR, core.PaymentMethodPayOver3Month)

	f.awaitStatus(t, id, core.PaymentStatusRejected)

	resp, err := f.service.GetPayment(id)
	require.NoError(t, err)
	assert.Len(t, resp.Verifications, 3)

	// Terminal status must survive the stragglers completing.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, core.PaymentStatusRejected, f.payments.status(id))
}

// TestPipeline_PayLaterAllPass verifies the three-check pay-later flow is
// accepted when fraud passes too.
func TestPipeline_PayLaterAllPass(t *testing.T) {
	t.Parallel()

	f := startPipeline(t, pass)
	id := f.initialize(t, "50.00", core.CurrencyEUR, core.PaymentMethodPayOver3Month)

	f.awaitStatus(t, id, core.PaymentStatusAccepted)

	resp, err := f.service.GetPayment(id)
	require.NoError(t, err)
	assert.Len(t, resp.Verifications, 3)
}

// TestPipeline_ValidationRejectsBeforePipeline verifies malformed requests
// never reach the pipeline.
func TestPipeline_ValidationRejectsBeforePipeline(t *testing.T) {
	t.Parallel()

	f := startPipeline(t, pass)

	_, err := f.service.InitializePayment(input.InitializePaymentRequest{
		Amount:   decimal.Zero,
		Currency: core.CurrencyEUR,
		Method:   core.PaymentMethodPayNow,
		Merchant: "acme-store",
	})
	require.Error(t, err)

	_, err = f.service.InitializePayment(input.InitializePaymentRequest{
		Amount:   decimal.RequireFromString("10.00"),
		Currency: core.Currency("XXX"),
		Method:   core.PaymentMethodPayNow,
		Merchant: "acme-store",
	})
	require.Error(t, err)

	_, err = f.service.InitializePayment(input.InitializePaymentRequest{
		Amount:   decimal.RequireFromString("10.00"),
		Currency: core.CurrencyEUR,
		Method:   core.PaymentMethod("INSTALLMENTS"),
		Merchant: "acme-store",
	})
	require.Error(t, err)

	_, err = f.service.InitializePayment(input.InitializePaymentRequest{
		Amount:   decimal.RequireFromString("10.00"),
		Currency: core.CurrencyEUR,
		Method:   core.PaymentMethodPayNow,
		Merchant: "   ",
	})
	require.Error(t, err)
}

// TestPipeline_GetPaymentNotFound verifies the read path surfaces not-found.
func TestPipeline_GetPaymentNotFound(t *testing.T) {
	t.Parallel()

	f := startPipeline(t, pass)
	_, err := f.service.GetPayment(uuid.New())
	require.ErrorIs(t, err, core.ErrPaymentNotFound)
}
