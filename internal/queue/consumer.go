package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/stewardship-hub/internal/mailer"
)

// Handler turns events into side effects: one line per event in
// LogDir/hub-events.log and, for approvals, a welcome email.
type Handler struct {
	LogDir string
	Mailer mailer.Mailer

	mu sync.Mutex
}

// StartEventConsumer connects to RabbitMQ, declares both hub queues
// (durable) and consumes them until ctx is cancelled.  Dial failures back
// off exponentially up to 30s; a dropped connection is re-dialled.
func StartEventConsumer(ctx context.Context, url string, h *Handler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("event-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, h)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("event-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, h *Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("event-consumer: set QoS failed: %v", err)
	}

	type delivery struct {
		queue string
		amqp.Delivery
	}
	merged := make(chan delivery)
	var wg sync.WaitGroup
	for _, q := range []string{QueueVerificationApproved, QueuePurchaseLogged} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		wg.Add(1)
		go func(q string, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for d := range msgs {
				select {
				case merged <- delivery{queue: q, Delivery: d}:
				case <-ctx.Done():
					_ = d.Nack(false, true)
					return
				}
			}
		}(q, msgs)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-merged:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := h.Handle(ctx, d.queue, d.Body); err != nil {
				log.Printf("event-consumer: handle %s failed: %v", d.queue, err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle processes one message body from queue.
func (h *Handler) Handle(ctx context.Context, queue string, body []byte) error {
	switch queue {
	case QueueVerificationApproved:
		var ev VerificationApprovedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line := fmt.Sprintf("[%s] Verification approved | request_id=%s | user_id=%s | email=%s | by=%s",
			ev.ApprovedAt, ev.RequestID, ev.UserID, ev.Email, ev.ApprovedBy)
		if err := h.appendLine(line); err != nil {
			return err
		}
		if h.Mailer != nil && ev.Email != "" {
			if err := h.Mailer.Send(ctx, mailer.Welcome(ev.Email, ev.Name)); err != nil {
				// The log line is already written; a retry would duplicate it.
				log.Printf("event-consumer: welcome mail to %s failed: %v", ev.Email, err)
			}
		}
		return nil

	case QueuePurchaseLogged:
		var ev PurchaseLoggedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		names := make([]string, 0, len(ev.Items))
		for _, it := range ev.Items {
			names = append(names, it.ItemName)
		}
		line := fmt.Sprintf("[%s] Purchases logged | source=%s | by=%s | date=%s | count=%d | total=%.2f | items=[%s]",
			ev.LoggedAt, ev.Source, ev.LoggedBy, ev.PurchaseDate, len(ev.Items), ev.Total, strings.Join(names, ","))
		return h.appendLine(line)
	}
	return fmt.Errorf("unknown queue %q", queue)
}

func (h *Handler) appendLine(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	dir := h.LogDir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "hub-events.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
