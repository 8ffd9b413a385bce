package output

import (
	"github.com/payflow/payment-engine/internal/core"
)

// EventPublisher is an output port (secondary port) for pipeline event dispatch.
// Delivery is fire-and-forget and at-most-once; each event type feeds exactly
// one pipeline stage. Secondary adapters (in-process bus, RabbitMQ) implement this.
type EventPublisher interface {
	// PublishPaymentCreated feeds the verification scheduler
	PublishPaymentCreated(event core.PaymentCreatedEvent) error

	// PublishReadyForVerification feeds the verification runner
	PublishReadyForVerification(event core.ReadyForVerificationEvent) error

	// PublishVerificationCompleted feeds the verification analyzer
	PublishVerificationCompleted(event core.VerificationCompletedEvent) error

	// Close releases the underlying transport
	Close() error
}
