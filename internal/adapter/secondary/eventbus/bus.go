// Package eventbus is an in-process implementation of the event dispatch
// port. Each of the three pipeline stages gets its own bounded worker pool so
// slow verifier executions cannot starve scheduling or analysis. Wiring is
// static: exactly one handler per event type, registered before the first
// publish.
package eventbus

import (
	"fmt"

	"github.com/payflow/payment-engine/internal/core"
	"go.uber.org/zap"
)

// Config bounds the three stage pools
type Config struct {
	Scheduler PoolConfig
	Runner    PoolConfig
	Analyzer  PoolConfig
}

// Bus routes typed events onto per-stage worker pools
type Bus struct {
	schedulerPool *workerPool
	runnerPool    *workerPool
	analyzerPool  *workerPool

	onCreated   func(core.PaymentCreatedEvent)
	onReady     func(core.ReadyForVerificationEvent)
	onCompleted func(core.VerificationCompletedEvent)

	logger *zap.Logger
}

// New creates an event bus with one bounded pool per pipeline stage
func New(cfg Config, logger *zap.Logger) *Bus {
	return &Bus{
		schedulerPool: newWorkerPool(cfg.Scheduler),
		runnerPool:    newWorkerPool(cfg.Runner),
		analyzerPool:  newWorkerPool(cfg.Analyzer),
		logger:        logger,
	}
}

// SubscribePaymentCreated registers the scheduling stage handler
func (b *Bus) SubscribePaymentCreated(handler func(core.PaymentCreatedEvent)) {
	b.onCreated = handler
}

// SubscribeReadyForVerification registers the runner stage handler
func (b *Bus) SubscribeReadyForVerification(handler func(core.ReadyForVerificationEvent)) {
	b.onReady = handler
}

// SubscribeVerificationCompleted registers the analyzer stage handler
func (b *Bus) SubscribeVerificationCompleted(handler func(core.VerificationCompletedEvent)) {
	b.onCompleted = handler
}

// PublishPaymentCreated dispatches onto the scheduler pool
func (b *Bus) PublishPaymentCreated(event core.PaymentCreatedEvent) error {
	if b.onCreated == nil {
		return fmt.Errorf("no handler subscribed for payment created events")
	}
	return b.schedulerPool.submit(func() { b.onCreated(event) })
}

// PublishReadyForVerification dispatches onto the runner pool
func (b *Bus) PublishReadyForVerification(event core.ReadyForVerificationEvent) error {
	if b.onReady == nil {
		return fmt.Errorf("no handler subscribed for ready for verification events")
	}
	return b.runnerPool.submit(func() { b.onReady(event) })
}

// PublishVerificationCompleted dispatches onto the analyzer pool
func (b *Bus) PublishVerificationCompleted(event core.VerificationCompletedEvent) error {
	if b.onCompleted == nil {
		return fmt.Errorf("no handler subscribed for verification completed events")
	}
	return b.analyzerPool.submit(func() { b.onCompleted(event) })
}

// Close drains the stage pools in pipeline order and waits for in-flight
// handlers to finish.
func (b *Bus) Close() error {
	b.logger.Info("draining event bus")
	b.schedulerPool.close()
	b.runnerPool.close()
	b.analyzerPool.close()
	return nil
}
