package model

import "time"

// Notification types.  When the caller does not name a type it is inferred
// from the identifiers present on the message.
const (
	NotificationGeneral             = "general"
	NotificationBookingConfirmation = "booking_confirmation"
	NotificationPaymentConfirmation = "payment_confirmation"
)

// Outbox delivery states.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// Notification is the sink's durable record of a delivered message.
type Notification struct {
	ID             uint64    `json:"-"`
	NotificationID string    `json:"notificationId"`
	UserID         string    `json:"userId"`
	BookingID      string    `json:"bookingId"`
	PaymentID      string    `json:"paymentId"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	Status         string    `json:"status"`
	SentAt         time.Time `json:"sentAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

// InferNotificationType resolves the notification type from the attached
// identifiers when none was supplied.
func InferNotificationType(explicit, bookingID, paymentID string) string {
	if explicit != "" {
		return explicit
	}
	if paymentID != "" {
		return NotificationPaymentConfirmation
	}
	if bookingID != "" {
		return NotificationBookingConfirmation
	}
	return NotificationGeneral
}

// OutboxMessage is a notification recorded durably before dispatch so that
// delivery can be retried independently of the transaction that produced
// it.  Rows are written in the same database transaction as their trigger
// (e.g. a successful payment) and relayed to the broker by a worker.
type OutboxMessage struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	BookingID string     `json:"bookingId"`
	PaymentID string     `json:"paymentId"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	Attempts  int        `json:"attempts"`
	CreatedAt time.Time  `json:"createdAt"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
}
