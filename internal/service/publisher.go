// Package service holds the operations that span several repositories:
// dashboard assembly, membership approval and event publishing.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/stewardship-hub/internal/queue"
)

// EventPublisher emits hub events.  Implementations log failures; callers
// never fail a request because an event could not be sent.
type EventPublisher interface {
	PublishVerificationApproved(ctx context.Context, ev queue.VerificationApprovedEvent) error
	PublishPurchaseLogged(ctx context.Context, ev queue.PurchaseLoggedEvent) error
}

// Publisher sends events to RabbitMQ.  Each publish dials its own
// connection; events are rare enough that a pool is not worth holding.
// With an empty URL every publish is a no-op.
type Publisher struct {
	URL     string
	Timeout time.Duration
}

func NewPublisher(url string) *Publisher {
	return &Publisher{URL: url, Timeout: 5 * time.Second}
}

func (p *Publisher) PublishVerificationApproved(ctx context.Context, ev queue.VerificationApprovedEvent) error {
	return p.publish(ctx, queue.QueueVerificationApproved, ev)
}

func (p *Publisher) PublishPurchaseLogged(ctx context.Context, ev queue.PurchaseLoggedEvent) error {
	return p.publish(ctx, queue.QueuePurchaseLogged, ev)
}

// publish declares the durable queue and sends v as a persistent JSON
// message on the default exchange.
func (p *Publisher) publish(ctx context.Context, queueName string, v any) error {
	if p == nil || p.URL == "" {
		return nil
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("rabbitmq: marshal %s failed: %v", queueName, err)
		return err
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.Timeout)})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare %s failed: %v", queueName, err)
		return err
	}
	err = ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Printf("rabbitmq: publish %s failed: %v", queueName, err)
	}
	return err
}
