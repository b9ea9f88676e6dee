// Package outbox relays durably recorded notification messages to the
// broker.  Rows are written by the payment transaction; the relay is the
// only component that moves them out.
package outbox

import (
	"context"
	"log"
	"time"

	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/monitoring"
	"github.com/ticketloom/booking/internal/queue"
)

// maxAttempts bounds delivery retries per message before the row is parked
// as failed.
const maxAttempts = 5

// Store is the outbox table access the relay needs.
// *repository.OutboxRepo satisfies it.
type Store interface {
	FetchPending(ctx context.Context, limit int) ([]model.OutboxMessage, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, maxAttempts int) error
	CountPending(ctx context.Context) (int, error)
}

// Publisher sends one notification message to the dispatch queue.
type Publisher interface {
	Publish(ctx context.Context, msg queue.NotificationMessage) error
}

// Relay drains pending outbox rows on a fixed interval.
type Relay struct {
	store     Store
	publisher Publisher
	interval  time.Duration
	batch     int
}

func NewRelay(store Store, publisher Publisher, interval time.Duration, batch int) *Relay {
	return &Relay{store: store, publisher: publisher, interval: interval, batch: batch}
}

// Run polls the outbox until ctx is cancelled.  Each tick drains at most one
// batch; errors are logged and retried on the next tick.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.DrainOnce(ctx); err != nil {
				log.Printf("outbox-relay: drain failed: %v", err)
			}
		}
	}
}

// DrainOnce fetches one batch of pending messages and publishes each.
// Publish failures mark the individual row failed and move on, so one bad
// message cannot block the rest of the batch.
func (r *Relay) DrainOnce(ctx context.Context) error {
	msgs, err := r.store.FetchPending(ctx, r.batch)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		err := r.publisher.Publish(ctx, queue.NotificationMessage{
			NotificationID: m.ID,
			UserID:         m.UserID,
			BookingID:      m.BookingID,
			PaymentID:      m.PaymentID,
			Type:           m.Type,
			Message:        m.Message,
		})
		if err != nil {
			log.Printf("outbox-relay: publish %s failed: %v", m.ID, err)
			monitoring.OutboxRelayed("failed")
			if mErr := r.store.MarkFailed(ctx, m.ID, maxAttempts); mErr != nil {
				log.Printf("outbox-relay: mark failed %s: %v", m.ID, mErr)
			}
			continue
		}
		monitoring.OutboxRelayed("sent")
		if mErr := r.store.MarkSent(ctx, m.ID); mErr != nil {
			// The message went out but the row stayed pending; the sink's
			// notification_id dedupe absorbs the resulting redelivery.
			log.Printf("outbox-relay: mark sent %s: %v", m.ID, mErr)
		}
	}
	return nil
}
