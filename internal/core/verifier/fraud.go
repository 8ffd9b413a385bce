package verifier

import (
	"context"
	"math/rand"
	"time"

	"github.com/payflow/payment-engine/internal/core"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fraudThreshold is the amount, in the reference currency, above which
// pay-later payments are screened for fraud.
var fraudThreshold = core.Money{
	Amount:   decimal.New(10, 0),
	Currency: core.CurrencyEUR,
}

// FraudDecision produces the outcome of a fraud screening. Injected so tests
// can supply deterministic outcomes; the default stands in for a real model.
type FraudDecision func(payment *core.Payment) core.VerificationStatus

// RandomFraudDecision passes or fails with equal probability
func RandomFraudDecision(_ *core.Payment) core.VerificationStatus {
	if rand.Intn(2) == 0 {
		return core.VerificationStatusPassed
	}
	return core.VerificationStatusFailed
}

// FraudVerifier screens pay-later payments whose converted amount exceeds
// the reference threshold.
type FraudVerifier struct {
	conversion core.CurrencyConversion
	decide     FraudDecision
	logger     *zap.Logger
}

// NewFraudVerifier creates a fraud verifier with the given decision strategy
func NewFraudVerifier(conversion core.CurrencyConversion, decide FraudDecision, logger *zap.Logger) *FraudVerifier {
	return &FraudVerifier{conversion: conversion, decide: decide, logger: logger}
}

func (v *FraudVerifier) Type() core.VerificationType {
	return core.VerificationTypeFraud
}

func (v *FraudVerifier) ShouldVerify(payment *core.Payment) (bool, error) {
	if !payment.Method.IsPayLater() {
		return false, nil
	}
	inEur, err := v.conversion.Convert(payment.Money, fraudThreshold.Currency)
	if err != nil {
		return false, err
	}
	return inEur.GreaterThan(fraudThreshold)
}

func (v *FraudVerifier) Verify(ctx context.Context, payment *core.Payment) (core.VerificationStatus, error) {
	v.logger.Info("running fraud verification",
		zap.String("payment_id", payment.ID.String()))
	if err := simulateWork(ctx, 50*time.Millisecond, 2*time.Second); err != nil {
		return core.VerificationStatusError, err
	}
	return v.decide(payment), nil
}
