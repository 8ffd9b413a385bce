// Package messaging is a RabbitMQ implementation of the event dispatch port
// for the split deployment: the API binary publishes created payments and the
// worker binary consumes all three pipeline stages.
package messaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/payflow/payment-engine/internal/core"
	"go.uber.org/zap"
)

const (
	ExchangeName = "payments"

	QueueCreated   = "payment.created"
	QueueReady     = "verification.ready"
	QueueCompleted = "verification.completed"

	// PrefetchCount limits unacked deliveries per consumer channel
	PrefetchCount = 1
)

// RabbitMQClient implements the EventPublisher output port over AMQP
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewRabbitMQClient connects and declares the exchange and stage queues
func NewRabbitMQClient(amqpURL string, logger *zap.Logger) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	for _, queue := range []string{QueueCreated, QueueReady, QueueCompleted} {
		_, err = channel.QueueDeclare(
			queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err == nil {
			err = channel.QueueBind(queue, queue, ExchangeName, false, nil)
		}
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
		logger:  logger,
	}, nil
}

// PublishPaymentCreated publishes onto the created queue
func (c *RabbitMQClient) PublishPaymentCreated(event core.PaymentCreatedEvent) error {
	return c.publish(QueueCreated, paymentCreatedMessage{Payment: toPaymentMessage(event.Payment)})
}

// PublishReadyForVerification publishes onto the ready queue
func (c *RabbitMQClient) PublishReadyForVerification(event core.ReadyForVerificationEvent) error {
	return c.publish(QueueReady, readyForVerificationMessage{
		Payment:      toPaymentMessage(event.Payment),
		Verification: toVerificationMessage(event.Verification),
	})
}

// PublishVerificationCompleted publishes onto the completed queue
func (c *RabbitMQClient) PublishVerificationCompleted(event core.VerificationCompletedEvent) error {
	return c.publish(QueueCompleted, verificationCompletedMessage{
		VerificationID: event.VerificationID,
		PaymentID:      event.PaymentID.String(),
		Result:         string(event.Result),
	})
}

func (c *RabbitMQClient) publish(routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = c.channel.Publish(
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", routingKey, err)
	}

	c.logger.Debug("published event", zap.String("queue", routingKey))
	return nil
}

// ConsumePaymentCreated feeds created payments to the handler
func (c *RabbitMQClient) ConsumePaymentCreated(handler func(core.PaymentCreatedEvent)) error {
	return consume(c, QueueCreated, func(msg paymentCreatedMessage) error {
		payment, err := msg.Payment.toCore()
		if err != nil {
			return err
		}
		handler(core.PaymentCreatedEvent{Payment: *payment})
		return nil
	})
}

// ConsumeReadyForVerification feeds dispatched verifications to the handler
func (c *RabbitMQClient) ConsumeReadyForVerification(handler func(core.ReadyForVerificationEvent)) error {
	return consume(c, QueueReady, func(msg readyForVerificationMessage) error {
		payment, err := msg.Payment.toCore()
		if err != nil {
			return err
		}
		verification, err := msg.Verification.toCore()
		if err != nil {
			return err
		}
		handler(core.ReadyForVerificationEvent{Payment: *payment, Verification: *verification})
		return nil
	})
}

// ConsumeVerificationCompleted feeds completions to the handler
func (c *RabbitMQClient) ConsumeVerificationCompleted(handler func(core.VerificationCompletedEvent)) error {
	return consume(c, QueueCompleted, func(msg verificationCompletedMessage) error {
		event, err := msg.toCore()
		if err != nil {
			return err
		}
		handler(*event)
		return nil
	})
}

// consume registers a consumer on its own channel. Malformed payloads are
// acked away after logging; handler panics nack without requeue so a poison
// message cannot wedge the queue.
func consume[M any](c *RabbitMQClient, queue string, handle func(M) error) error {
	channel, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}

	if err := channel.Qos(PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := channel.Consume(
		queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", queue, err)
	}

	c.logger.Info("consuming events", zap.String("queue", queue))

	go func() {
		for delivery := range deliveries {
			var msg M
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				c.logger.Error("dropping malformed event",
					zap.String("queue", queue),
					zap.Error(err))
				delivery.Ack(false)
				continue
			}
			if err := handle(msg); err != nil {
				c.logger.Error("dropping undecodable event",
					zap.String("queue", queue),
					zap.Error(err))
				delivery.Ack(false)
				continue
			}
			delivery.Ack(false)
		}
	}()

	return nil
}

// Close closes the RabbitMQ connection
func (c *RabbitMQClient) Close() error {
	var errs []error
	if c.channel != nil {
		errs = append(errs, c.channel.Close())
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}
	return errors.Join(errs...)
}
