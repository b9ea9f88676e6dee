package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/utils"
)

// PaymentStore is the persistence surface the gateway needs.
// *repository.PaymentRepo satisfies it.
type PaymentStore interface {
	CreateWithOutbox(ctx context.Context, p *model.Payment, out *model.OutboxMessage) error
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Payment, error)
	GetSuccessfulByBookingID(ctx context.Context, bookingID string) (*model.Payment, error)
}

// PaymentService simulates a card processor.  Outcome decides whether a
// charge succeeds; in production wiring it is a biased coin, in tests it is
// injected.
type PaymentService struct {
	store   PaymentStore
	outcome func() bool
}

// NewPaymentService builds a gateway whose charges succeed with probability
// successRate.
func NewPaymentService(store PaymentStore, successRate float64) *PaymentService {
	return &PaymentService{
		store:   store,
		outcome: func() bool { return rand.Float64() < successRate },
	}
}

// NewPaymentServiceWithOutcome builds a gateway with a fixed outcome
// function, for tests.
func NewPaymentServiceWithOutcome(store PaymentStore, outcome func() bool) *PaymentService {
	return &PaymentService{store: store, outcome: outcome}
}

// Process charges a booking.  The gateway is idempotent per booking: if a
// successful payment already exists for bookingID it is returned unchanged
// and no new charge is made.  A successful charge writes the payment and a
// confirmation outbox message in one transaction; a declined charge records
// only the failed payment.
func (s *PaymentService) Process(ctx context.Context, bookingID, userID string, amount decimal.Decimal) (*model.Payment, error) {
	if bookingID == "" {
		return nil, model.ErrInvalidRequest("bookingId is required")
	}
	if amount.IsNegative() {
		return nil, model.ErrInvalidRequest("amount must not be negative")
	}

	if existing, err := s.store.GetSuccessfulByBookingID(ctx, bookingID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	p := &model.Payment{
		PaymentID:       utils.GenerateID("PAY"),
		BookingID:       bookingID,
		Amount:          amount,
		Status:          model.PaymentFailed,
		PaymentMethod:   "dummy_card",
		TransactionDate: time.Now().UTC(),
	}

	var out *model.OutboxMessage
	if s.outcome() {
		p.Status = model.PaymentSuccess
		out = &model.OutboxMessage{
			ID:        uuid.NewString(),
			UserID:    userID,
			BookingID: bookingID,
			PaymentID: p.PaymentID,
			Type:      model.NotificationPaymentConfirmation,
			Message:   fmt.Sprintf("Payment of %s for booking %s was successful", p.Amount.StringFixed(2), bookingID),
		}
	}

	if err := s.store.CreateWithOutbox(ctx, p, out); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPayment returns a payment by its public id; repository.ErrNotFound
// passes through for the handler to map.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	return s.store.GetByPaymentID(ctx, paymentID)
}
