package verifier

import (
	"context"
	"time"

	"github.com/payflow/payment-engine/internal/core"
	"go.uber.org/zap"
)

// AccountStatusVerifier checks that the paying account is in good standing.
// Applies to every payment. The current implementation always passes; in a
// real deployment this would call the accounts service.
type AccountStatusVerifier struct {
	logger *zap.Logger
}

// NewAccountStatusVerifier creates an account status verifier
func NewAccountStatusVerifier(logger *zap.Logger) *AccountStatusVerifier {
	return &AccountStatusVerifier{logger: logger}
}

func (v *AccountStatusVerifier) Type() core.VerificationType {
	return core.VerificationTypeAccountStatus
}

func (v *AccountStatusVerifier) ShouldVerify(_ *core.Payment) (bool, error) {
	return true, nil
}

func (v *AccountStatusVerifier) Verify(ctx context.Context, payment *core.Payment) (core.VerificationStatus, error) {
	v.logger.Info("running account status verification",
		zap.String("payment_id", payment.ID.String()))
	if err := simulateWork(ctx, 50*time.Millisecond, time.Second); err != nil {
		return core.VerificationStatusError, err
	}
	return core.VerificationStatusPassed, nil
}
