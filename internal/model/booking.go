package model // package model defines the entities shared across services

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking statuses.  A booking starts in StatusPendingPayment, moves to
// StatusConfirmed when the payment gateway reports success, and reaches the
// terminal StatusCancelled through an explicit cancellation.  There are no
// other states.
const (
	StatusPendingPayment = "pending_payment"
	StatusConfirmed      = "confirmed"
	StatusCancelled      = "cancelled"
)

// Booking is the durable record of a ticket reservation.  TotalAmount is
// fixed at creation (ticket price at booking time multiplied by the number
// of tickets) and never recomputed.  PaymentID is set only when the booking
// is confirmed.
type Booking struct {
	ID              uint64          `json:"-"`
	BookingID       string          `json:"bookingId"`
	UserID          string          `json:"userId"`
	EventID         string          `json:"eventId"`
	NumberOfTickets int             `json:"numberOfTickets"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          string          `json:"status"`
	PaymentID       *string         `json:"paymentId"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ValidStatus reports whether s is one of the three enumerated booking
// statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to
// another.  StatusCancelled is terminal: no transition leaves it.  A
// transition to the current status is allowed so that repeated requests
// stay idempotent.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPendingPayment:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func IsTerminal(status string) bool { return status == StatusCancelled }
