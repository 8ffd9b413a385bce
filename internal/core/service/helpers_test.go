package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/payflow/payment-engine/internal/core"
	"github.com/shopspring/decimal"
)

// In-memory implementations of the output ports, shared by the stage tests
// and the end-to-end pipeline tests.

type memState struct {
	mu            sync.Mutex
	payments      map[uuid.UUID]core.Payment
	verifications []core.Verification
	nextID        int64
}

func newMemState() *memState {
	return &memState{payments: make(map[uuid.UUID]core.Payment)}
}

func (s *memState) paymentVerifications(paymentID uuid.UUID) []core.Verification {
	var out []core.Verification
	for _, v := range s.verifications {
		if v.PaymentID == paymentID {
			out = append(out, v)
		}
	}
	return out
}

type memPaymentRepo struct {
	s             *memState
	failSetStatus error
}

func (r *memPaymentRepo) Save(payment *core.Payment) (*core.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	saved := *payment
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	r.s.payments[saved.ID] = saved
	return &saved, nil
}

func (r *memPaymentRepo) GetByID(id uuid.UUID) (*core.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, core.ErrPaymentNotFound
	}
	p.Verifications = r.s.paymentVerifications(id)
	return &p, nil
}

func (r *memPaymentRepo) SetStatus(id uuid.UUID, status core.PaymentStatus) error {
	if r.failSetStatus != nil {
		return r.failSetStatus
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return core.ErrPaymentNotFound
	}
	if p.Status.IsTerminal() {
		return fmt.Errorf("%w: payment %s is already %s", core.ErrTerminalStatus, id, p.Status)
	}
	p.Status = status
	r.s.payments[id] = p
	return nil
}

func (r *memPaymentRepo) status(id uuid.UUID) core.PaymentStatus {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.payments[id].Status
}

type memVerificationRepo struct {
	s        *memState
	failSave error
}

func (r *memVerificationRepo) Save(verification *core.Verification) (*core.Verification, error) {
	if r.failSave != nil {
		return nil, r.failSave
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	saved := *verification
	r.s.nextID++
	saved.ID = r.s.nextID
	r.s.verifications = append(r.s.verifications, saved)
	return &saved, nil
}

func (r *memVerificationRepo) UpdateStatus(id int64, status core.VerificationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.verifications {
		if r.s.verifications[i].ID != id {
			continue
		}
		if !status.IsTerminal() {
			return fmt.Errorf("%w: verification %d cannot return to %s", core.ErrTerminalStatus, id, status)
		}
		r.s.verifications[i].Status = status
		return nil
	}
	return core.ErrVerificationNotFound
}

// capturePublisher records published events and can simulate dispatch failures
type capturePublisher struct {
	mu        sync.Mutex
	created   []core.PaymentCreatedEvent
	ready     []core.ReadyForVerificationEvent
	completed []core.VerificationCompletedEvent
	failReady error
}

func (p *capturePublisher) PublishPaymentCreated(event core.PaymentCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, event)
	return nil
}

func (p *capturePublisher) PublishReadyForVerification(event core.ReadyForVerificationEvent) error {
	if p.failReady != nil {
		return p.failReady
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = append(p.ready, event)
	return nil
}

func (p *capturePublisher) PublishVerificationCompleted(event core.VerificationCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) completedEvents() []core.VerificationCompletedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.VerificationCompletedEvent(nil), p.completed...)
}

// stubVerifier is a scriptable verifier for stage tests
type stubVerifier struct {
	typ       core.VerificationType
	applies   bool
	appliesErr error
	result    core.VerificationStatus
	verifyErr error
	verify    func(ctx context.Context, p *core.Payment) (core.VerificationStatus, error)
}

func (v *stubVerifier) Type() core.VerificationType { return v.typ }

func (v *stubVerifier) ShouldVerify(*core.Payment) (bool, error) {
	return v.applies, v.appliesErr
}

func (v *stubVerifier) Verify(ctx context.Context, p *core.Payment) (core.VerificationStatus, error) {
	if v.verify != nil {
		return v.verify(ctx, p)
	}
	return v.result, v.verifyErr
}

func newTestPayment(amount string, currency core.Currency, method core.PaymentMethod) core.Payment {
	return core.Payment{
		ID:       uuid.New(),
		Money:    core.NewMoney(decimal.RequireFromString(amount), currency),
		Method:   method,
		Merchant: "merchant-1",
		Status:   core.PaymentStatusNew,
	}
}
