package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/ticketloom/booking/internal/model"
)

// NotificationRepo provides data access to the notifications table owned by
// the sink service.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given
// database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts a delivered notification.  Re-delivery of the same
// notification_id is treated as already handled and reported as
// ErrDuplicate so consumers can ack without writing twice.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications (notification_id, user_id, booking_id, payment_id, type, message, status, sent_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, n.NotificationID, n.UserID, n.BookingID,
		n.PaymentID, n.Type, n.Message, n.Status, n.SentAt.UTC())
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ListByUser returns all notifications for the given user, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	const q = `SELECT notification_id, user_id, booking_id, payment_id, type, message, status, sent_at, created_at
	           FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.BookingID, &n.PaymentID,
			&n.Type, &n.Message, &n.Status, &n.SentAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
