package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/queue"
)

type fakeOutboxStore struct {
	pending []model.OutboxMessage
	sent    []string
	failed  []string
}

func (s *fakeOutboxStore) FetchPending(_ context.Context, limit int) ([]model.OutboxMessage, error) {
	if limit > len(s.pending) {
		limit = len(s.pending)
	}
	return s.pending[:limit], nil
}

func (s *fakeOutboxStore) MarkSent(_ context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeOutboxStore) MarkFailed(_ context.Context, id string, _ int) error {
	s.failed = append(s.failed, id)
	return nil
}

func (s *fakeOutboxStore) CountPending(_ context.Context) (int, error) {
	return len(s.pending), nil
}

type fakePublisher struct {
	published []queue.NotificationMessage
	failFor   map[string]bool
}

func (p *fakePublisher) Publish(_ context.Context, msg queue.NotificationMessage) error {
	if p.failFor[msg.NotificationID] {
		return errors.New("broker down")
	}
	p.published = append(p.published, msg)
	return nil
}

func pendingMsg(id string) model.OutboxMessage {
	return model.OutboxMessage{
		ID:        id,
		UserID:    "u1",
		BookingID: "BK1",
		PaymentID: "PAY1",
		Type:      model.NotificationPaymentConfirmation,
		Message:   "Payment successful",
		Status:    model.OutboxPending,
	}
}

func TestDrainOncePublishesAndMarksSent(t *testing.T) {
	store := &fakeOutboxStore{pending: []model.OutboxMessage{pendingMsg("m1"), pendingMsg("m2")}}
	pub := &fakePublisher{}
	r := NewRelay(store, pub, time.Second, 10)

	require.NoError(t, r.DrainOnce(context.Background()))

	require.Len(t, pub.published, 2)
	assert.Equal(t, "m1", pub.published[0].NotificationID)
	assert.Equal(t, "u1", pub.published[0].UserID)
	assert.Equal(t, "PAY1", pub.published[0].PaymentID)
	assert.Equal(t, []string{"m1", "m2"}, store.sent)
	assert.Empty(t, store.failed)
}

func TestDrainOnceRespectsBatchLimit(t *testing.T) {
	store := &fakeOutboxStore{pending: []model.OutboxMessage{pendingMsg("m1"), pendingMsg("m2"), pendingMsg("m3")}}
	pub := &fakePublisher{}
	r := NewRelay(store, pub, time.Second, 2)

	require.NoError(t, r.DrainOnce(context.Background()))
	assert.Len(t, pub.published, 2)
}

func TestDrainOnceOneFailureDoesNotBlockBatch(t *testing.T) {
	store := &fakeOutboxStore{pending: []model.OutboxMessage{pendingMsg("bad"), pendingMsg("good")}}
	pub := &fakePublisher{failFor: map[string]bool{"bad": true}}
	r := NewRelay(store, pub, time.Second, 10)

	require.NoError(t, r.DrainOnce(context.Background()))

	require.Len(t, pub.published, 1)
	assert.Equal(t, "good", pub.published[0].NotificationID)
	assert.Equal(t, []string{"bad"}, store.failed)
	assert.Equal(t, []string{"good"}, store.sent)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &fakeOutboxStore{}
	r := NewRelay(store, &fakePublisher{}, time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("relay did not stop after cancel")
	}
}
