package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/repository"
)

// fakePaymentStore records what was written, including whether an outbox row
// accompanied the payment.
type fakePaymentStore struct {
	mu       sync.Mutex
	payments []*model.Payment
	outbox   []*model.OutboxMessage
}

func (s *fakePaymentStore) CreateWithOutbox(_ context.Context, p *model.Payment, out *model.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, p)
	if out != nil {
		s.outbox = append(s.outbox, out)
	}
	return nil
}

func (s *fakePaymentStore) GetByPaymentID(_ context.Context, paymentID string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.PaymentID == paymentID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakePaymentStore) GetSuccessfulByBookingID(_ context.Context, bookingID string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.BookingID == bookingID && p.Status == model.PaymentSuccess {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func TestProcessSuccessWritesOutbox(t *testing.T) {
	store := &fakePaymentStore{}
	svc := NewPaymentServiceWithOutcome(store, func() bool { return true })

	p, err := svc.Process(context.Background(), "BK1", "u1", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentSuccess, p.Status)
	assert.Equal(t, "BK1", p.BookingID)
	assert.NotEmpty(t, p.PaymentID)

	require.Len(t, store.outbox, 1)
	out := store.outbox[0]
	assert.Equal(t, "u1", out.UserID)
	assert.Equal(t, "BK1", out.BookingID)
	assert.Equal(t, p.PaymentID, out.PaymentID)
	assert.Equal(t, model.NotificationPaymentConfirmation, out.Type)
	assert.NotEmpty(t, out.ID)
}

func TestProcessDeclinedWritesNoOutbox(t *testing.T) {
	store := &fakePaymentStore{}
	svc := NewPaymentServiceWithOutcome(store, func() bool { return false })

	p, err := svc.Process(context.Background(), "BK2", "u1", decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, p.Status)
	assert.Len(t, store.payments, 1)
	assert.Empty(t, store.outbox)
}

func TestProcessIdempotentPerBooking(t *testing.T) {
	store := &fakePaymentStore{}
	svc := NewPaymentServiceWithOutcome(store, func() bool { return true })

	first, err := svc.Process(context.Background(), "BK3", "u1", decimal.NewFromInt(75))
	require.NoError(t, err)

	second, err := svc.Process(context.Background(), "BK3", "u1", decimal.NewFromInt(75))
	require.NoError(t, err)
	assert.Equal(t, first.PaymentID, second.PaymentID)
	// no second charge, no second outbox row
	assert.Len(t, store.payments, 1)
	assert.Len(t, store.outbox, 1)
}

func TestProcessRetryAfterDeclineChargesAgain(t *testing.T) {
	store := &fakePaymentStore{}
	outcomes := []bool{false, true}
	i := 0
	svc := NewPaymentServiceWithOutcome(store, func() bool {
		v := outcomes[i]
		i++
		return v
	})

	p1, err := svc.Process(context.Background(), "BK4", "u1", decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, p1.Status)

	// a failed payment does not satisfy idempotency; the retry charges again
	p2, err := svc.Process(context.Background(), "BK4", "u1", decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentSuccess, p2.Status)
	assert.NotEqual(t, p1.PaymentID, p2.PaymentID)
	assert.Len(t, store.payments, 2)
}

func TestProcessValidation(t *testing.T) {
	store := &fakePaymentStore{}
	svc := NewPaymentServiceWithOutcome(store, func() bool { return true })

	_, err := svc.Process(context.Background(), "", "u1", decimal.NewFromInt(10))
	e, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.CodeInvalidRequest, e.Code)

	_, err = svc.Process(context.Background(), "BK5", "u1", decimal.NewFromInt(-10))
	e, ok = model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.CodeInvalidRequest, e.Code)

	assert.Empty(t, store.payments)
}
