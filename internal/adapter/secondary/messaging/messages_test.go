package messaging

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payflow/payment-engine/internal/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadyForVerificationMessage_RoundTrip verifies the wire DTOs preserve
// the event across publish and consume.
func TestReadyForVerificationMessage_RoundTrip(t *testing.T) {
	t.Parallel()

	payment := core.Payment{
		ID:        uuid.New(),
		Money:     core.NewMoney(decimal.RequireFromString("50.00"), core.CurrencyEUR),
		Method:    core.PaymentMethodPayOver3Month,
		Merchant:  "acme-store",
		Status:    core.PaymentStatusVerifying,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	verification := core.Verification{
		ID:        42,
		PaymentID: payment.ID,
		Type:      core.VerificationTypeFraud,
		Status:    core.VerificationStatusScheduled,
	}

	msg := readyForVerificationMessage{
		Payment:      toPaymentMessage(payment),
		Verification: toVerificationMessage(verification),
	}

	gotPayment, err := msg.Payment.toCore()
	require.NoError(t, err)
	assert.Equal(t, payment.ID, gotPayment.ID)
	assert.True(t, gotPayment.Money.Amount.Equal(payment.Money.Amount))
	assert.Equal(t, payment.Method, gotPayment.Method)
	assert.Equal(t, payment.Status, gotPayment.Status)

	gotVerification, err := msg.Verification.toCore()
	require.NoError(t, err)
	assert.Equal(t, verification, *gotVerification)
}

// TestMessages_InvalidPaymentID verifies undecodable ids fail instead of
// producing zero-valued events.
func TestMessages_InvalidPaymentID(t *testing.T) {
	t.Parallel()

	_, err := paymentMessage{ID: "not-a-uuid"}.toCore()
	require.Error(t, err)

	_, err = verificationMessage{PaymentID: "not-a-uuid"}.toCore()
	require.Error(t, err)

	_, err = verificationCompletedMessage{PaymentID: "not-a-uuid"}.toCore()
	require.Error(t, err)
}
