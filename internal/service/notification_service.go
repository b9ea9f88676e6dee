package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/queue"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/utils"
)

// NotificationService persists delivered notifications.  Delivery here is a
// stand-in for a real email/SMS transport: the "send" is a log line plus a
// durable record.
type NotificationService struct {
	store *repository.NotificationRepo
}

func NewNotificationService(store *repository.NotificationRepo) *NotificationService {
	return &NotificationService{store: store}
}

// Record handles one message from the dispatch queue.  Redelivered messages
// hit the unique notification_id and are absorbed silently.
func (s *NotificationService) Record(ctx context.Context, msg queue.NotificationMessage) error {
	n := &model.Notification{
		NotificationID: msg.NotificationID,
		UserID:         msg.UserID,
		BookingID:      msg.BookingID,
		PaymentID:      msg.PaymentID,
		Type:           model.InferNotificationType(msg.Type, msg.BookingID, msg.PaymentID),
		Message:        msg.Message,
		Status:         "sent",
		SentAt:         time.Now().UTC(),
	}
	err := s.store.Create(ctx, n)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("notification: sent to user %s: %s", n.UserID, n.Message)
	return nil
}

// Send delivers a notification requested directly over HTTP, fire-and-forget
// from the caller's point of view.
func (s *NotificationService) Send(ctx context.Context, userID, bookingID, paymentID, typ, message string) (*model.Notification, error) {
	if userID == "" || message == "" {
		return nil, model.ErrInvalidRequest("userId and message are required")
	}
	n := &model.Notification{
		NotificationID: utils.GenerateID("NOTIF"),
		UserID:         userID,
		BookingID:      bookingID,
		PaymentID:      paymentID,
		Type:           model.InferNotificationType(typ, bookingID, paymentID),
		Message:        message,
		Status:         "sent",
		SentAt:         time.Now().UTC(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, err
	}
	log.Printf("notification: sent to user %s: %s", n.UserID, n.Message)
	return n, nil
}

// ListByUser returns a user's notifications, newest first.
func (s *NotificationService) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.store.ListByUser(ctx, userID)
}
