package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one dispatched notification.  Returning an error rejects
// the message without requeueing it.
type Handler func(ctx context.Context, msg NotificationMessage) error

// StartNotificationConsumer connects to the broker, declares the dispatch
// queue and consumes it until ctx is cancelled.  It runs a reconnect loop
// with exponential backoff so a broker restart does not take the sink down.
func StartNotificationConsumer(ctx context.Context, url string, handle Handler) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("notification-consumer: dial broker failed: %v; retrying in %s", err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(ctx, conn, handle); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
		}
		_ = conn.Close()
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("notification-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(NotificationQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(NotificationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			var msg NotificationMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("notification-consumer: unmarshal failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			if err := handle(ctx, msg); err != nil {
				log.Printf("notification-consumer: handle %s failed: %v", msg.NotificationID, err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}
