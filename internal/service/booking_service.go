package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/monitoring"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/utils"
)

// Outcome messages returned alongside a created booking.  A payment failure
// is not a booking failure: the booking exists and holds its seats, so the
// response stays a success with a degraded message.
const (
	MsgBookingConfirmed   = "Booking created and payment confirmed"
	MsgPaymentPending     = "Booking created but payment pending"
	MsgPaymentUnavailable = "Booking created but payment service unavailable"
)

// BookingStore is the persistence surface the orchestrator needs.
// *repository.BookingRepo satisfies it.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	SetStatus(ctx context.Context, bookingID, status string) error
	Confirm(ctx context.Context, bookingID, paymentID string) error
	Delete(ctx context.Context, bookingID string) error
}

// InventoryLedger is the seat accounting collaborator.  Reservation and
// release are atomic on the ledger side; the orchestrator never computes
// seat counts itself.
type InventoryLedger interface {
	GetEvent(ctx context.Context, eventID string) (*model.Event, error)
	ReserveSeats(ctx context.Context, eventID string, n int) error
	ReleaseSeats(ctx context.Context, eventID string, n int) error
}

// PaymentGateway charges a booking.  A declined charge returns a payment
// with a failed status and a nil error.
type PaymentGateway interface {
	Charge(ctx context.Context, bookingID, userID string, amount decimal.Decimal) (*model.Payment, error)
}

// BookingService runs the booking creation saga and the status lifecycle.
type BookingService struct {
	store    BookingStore
	ledger   InventoryLedger
	payments PaymentGateway
}

func NewBookingService(store BookingStore, ledger InventoryLedger, payments PaymentGateway) *BookingService {
	return &BookingService{store: store, ledger: ledger, payments: payments}
}

// CreateBooking runs the creation saga:
//
//  1. validate the request
//  2. fetch the event from the ledger
//  3. pre-check availability and compute the total amount
//  4. persist the booking as pending_payment
//  5. atomically reserve the seats; on failure delete the booking from
//     step 4 and propagate the reservation error
//  6. charge the payment gateway
//  7. on success confirm the booking; otherwise it stays pending_payment
//
// Once step 5 succeeds the booking is acknowledged regardless of the payment
// outcome; the returned message tells the caller which of the three payment
// outcomes happened.  Seats reserved for a pending_payment booking are only
// released through an explicit cancellation.
func (s *BookingService) CreateBooking(ctx context.Context, userID, eventID string, tickets int) (*model.Booking, string, error) {
	if userID == "" || eventID == "" {
		return nil, "", model.ErrInvalidRequest("userId and eventId are required")
	}
	if tickets < 1 {
		return nil, "", model.ErrInvalidRequest("numberOfTickets must be at least 1")
	}

	fetchStart := time.Now()
	ev, err := s.ledger.GetEvent(ctx, eventID)
	monitoring.SagaStep("fetch_event", fetchStart)
	if err != nil {
		monitoring.BookingOutcome("rejected")
		return nil, "", err
	}

	// Advisory pre-check only: the reservation in step 5 is the real gate.
	if ev.AvailableSeats < tickets {
		monitoring.BookingOutcome("rejected")
		return nil, "", model.ErrInsufficientInventory(ev.AvailableSeats)
	}

	booking := &model.Booking{
		BookingID:       utils.GenerateID("BK"),
		UserID:          userID,
		EventID:         eventID,
		NumberOfTickets: tickets,
		TotalAmount:     ev.TicketPrice.Mul(decimal.NewFromInt(int64(tickets))),
		Status:          model.StatusPendingPayment,
	}

	persistStart := time.Now()
	err = s.store.Create(ctx, booking)
	monitoring.SagaStep("persist_booking", persistStart)
	if err != nil {
		log.Printf("booking: persist %s failed: %v", booking.BookingID, err)
		return nil, "", err
	}

	reserveStart := time.Now()
	err = s.ledger.ReserveSeats(ctx, eventID, tickets)
	monitoring.SagaStep("reserve_seats", reserveStart)
	if err != nil {
		if e, ok := model.AsError(err); ok && e.Code == model.CodeReservationFailed {
			monitoring.ReservationResult("conflict")
		} else {
			monitoring.ReservationResult("error")
		}
		monitoring.BookingOutcome("compensated")
		if delErr := s.store.Delete(ctx, booking.BookingID); delErr != nil {
			log.Printf("booking: compensation delete of %s failed: %v", booking.BookingID, delErr)
		}
		// A lost reservation race surfaces to the caller the same way a
		// failed pre-check does.
		if e, ok := model.AsError(err); ok && e.Code == model.CodeReservationFailed {
			return nil, "", model.ErrInsufficientInventory(e.Remaining)
		}
		return nil, "", err
	}
	monitoring.ReservationResult("accepted")

	chargeStart := time.Now()
	payment, err := s.payments.Charge(ctx, booking.BookingID, userID, booking.TotalAmount)
	monitoring.SagaStep("charge_payment", chargeStart)
	if err != nil {
		log.Printf("booking: payment gateway unreachable for %s: %v", booking.BookingID, err)
		monitoring.BookingOutcome("payment_unavailable")
		return booking, MsgPaymentUnavailable, nil
	}
	if payment.Status != model.PaymentSuccess {
		monitoring.BookingOutcome("pending_payment")
		return booking, MsgPaymentPending, nil
	}

	if err := s.store.Confirm(ctx, booking.BookingID, payment.PaymentID); err != nil {
		// The charge went through but the confirmation write did not; the
		// booking stays pending_payment and the gateway's idempotency makes a
		// later re-confirmation safe.
		log.Printf("booking: confirm %s with payment %s failed: %v", booking.BookingID, payment.PaymentID, err)
		monitoring.BookingOutcome("pending_payment")
		return booking, MsgPaymentPending, nil
	}
	booking.Status = model.StatusConfirmed
	booking.PaymentID = &payment.PaymentID
	monitoring.BookingOutcome("confirmed")
	return booking, MsgBookingConfirmed, nil
}

// GetBooking returns a booking by its public id.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	b, err := s.store.GetByBookingID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrBookingNotFound()
	}
	return b, err
}

// ListBookings returns the user's bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]model.Booking, error) {
	if userID == "" {
		return nil, model.ErrInvalidRequest("userId is required")
	}
	return s.store.ListByUser(ctx, userID)
}

// UpdateStatus applies a lifecycle transition.  Repeating the current status
// is an idempotent no-op.  cancelled is terminal: any transition out of it
// is rejected.  Cancelling releases the booking's seats back to the ledger;
// a release failure is logged and does not undo the cancellation.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, status string) (*model.Booking, error) {
	if !model.ValidStatus(status) {
		return nil, model.ErrInvalidStatus("status must be one of pending_payment, confirmed, cancelled")
	}
	b, err := s.store.GetByBookingID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrBookingNotFound()
	}
	if err != nil {
		return nil, err
	}
	if b.Status == status {
		return b, nil
	}
	if !model.CanTransition(b.Status, status) {
		return nil, model.ErrInvalidStatus("cannot change status of a " + b.Status + " booking")
	}

	if err := s.store.SetStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	b.Status = status

	if status == model.StatusCancelled {
		if err := s.ledger.ReleaseSeats(ctx, b.EventID, b.NumberOfTickets); err != nil {
			log.Printf("booking: seat release for cancelled %s failed: %v", bookingID, err)
			monitoring.ReservationResult("release_error")
		}
	}
	return b, nil
}
