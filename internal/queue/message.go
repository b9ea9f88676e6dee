// Package queue defines message payloads exchanged over the message broker
// and the dispatch consumer run by the notification sink.
package queue

// NotificationQueueName is the durable queue carrying notification dispatch
// messages from the outbox relay to the sink.
const NotificationQueueName = "notification.dispatch"

// NotificationMessage is one notification to deliver.  NotificationID is the
// originating outbox row id; the sink's unique constraint on it makes
// redelivery harmless.
type NotificationMessage struct {
	NotificationID string `json:"notificationId"`
	UserID         string `json:"userId"`
	BookingID      string `json:"bookingId"`
	PaymentID      string `json:"paymentId"`
	Type           string `json:"type"`
	Message        string `json:"message"`
}
