package verifier

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/payflow/payment-engine/internal/core"
)

// Verifier is a pluggable payment check: an applicability predicate plus a
// pass/fail decision procedure.
type Verifier interface {
	// Type identifies the check this verifier performs
	Type() core.VerificationType

	// ShouldVerify reports whether the check applies to the payment.
	// Must be cheap and side-effect free.
	ShouldVerify(payment *core.Payment) (bool, error)

	// Verify runs the check and returns PASSED or FAILED. May block for the
	// duration of an external call; the caller maps errors to ERROR.
	Verify(ctx context.Context, payment *core.Payment) (core.VerificationStatus, error)
}

// Registry maps verification types to verifier instances. Built once at
// startup; lookups that miss are an explicit error, never a nil.
type Registry struct {
	verifiers map[core.VerificationType]Verifier
	order     []Verifier
}

// NewRegistry builds a registry from the given verifiers
func NewRegistry(verifiers ...Verifier) *Registry {
	r := &Registry{verifiers: make(map[core.VerificationType]Verifier, len(verifiers))}
	for _, v := range verifiers {
		if _, ok := r.verifiers[v.Type()]; ok {
			continue
		}
		r.verifiers[v.Type()] = v
		r.order = append(r.order, v)
	}
	return r
}

// Lookup resolves the verifier for a verification type.
// Returns core.ErrVerifierNotFound when none is registered.
func (r *Registry) Lookup(t core.VerificationType) (Verifier, error) {
	v, ok := r.verifiers[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrVerifierNotFound, t)
	}
	return v, nil
}

// All returns the registered verifiers in registration order
func (r *Registry) All() []Verifier {
	return r.order
}

// simulateWork blocks for a random duration in [min, max) to emulate the
// latency of a remote call. Returns early with the context error when the
// invocation is cancelled or times out.
func simulateWork(ctx context.Context, min, max time.Duration) error {
	d := min + time.Duration(rand.Int63n(int64(max-min)))
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
