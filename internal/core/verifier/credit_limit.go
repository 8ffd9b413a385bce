package verifier

import (
	"context"
	"time"

	"github.com/payflow/payment-engine/internal/core"
	"go.uber.org/zap"
)

// CreditLimitVerifier checks that a pay-later payment fits the customer's
// remaining credit. Only applies to pay-later methods.
type CreditLimitVerifier struct {
	logger *zap.Logger
}

// NewCreditLimitVerifier creates a credit limit verifier
func NewCreditLimitVerifier(logger *zap.Logger) *CreditLimitVerifier {
	return &CreditLimitVerifier{logger: logger}
}

func (v *CreditLimitVerifier) Type() core.VerificationType {
	return core.VerificationTypeCreditLimit
}

func (v *CreditLimitVerifier) ShouldVerify(payment *core.Payment) (bool, error) {
	return payment.Method.IsPayLater(), nil
}

func (v *CreditLimitVerifier) Verify(ctx context.Context, payment *core.Payment) (core.VerificationStatus, error) {
	v.logger.Info("running credit limit verification",
		zap.String("payment_id", payment.ID.String()))
	if err := simulateWork(ctx, 50*time.Millisecond, 2*time.Second); err != nil {
		return core.VerificationStatusError, err
	}
	return core.VerificationStatusPassed, nil
}
