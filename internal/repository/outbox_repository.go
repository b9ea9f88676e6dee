package repository

import (
	"context"
	"database/sql"

	"github.com/ticketloom/booking/internal/model"
)

// OutboxRepo provides the relay worker's view of the notification outbox.
// Rows are inserted by PaymentRepo.CreateWithOutbox inside the payment
// transaction; this repository only reads pending rows and records delivery
// outcomes.
type OutboxRepo struct {
	db *sql.DB
}

// NewOutboxRepo returns a new OutboxRepo bound to the given database.
func NewOutboxRepo(db *sql.DB) *OutboxRepo { return &OutboxRepo{db: db} }

// FetchPending returns up to limit pending messages, oldest first.
func (r *OutboxRepo) FetchPending(ctx context.Context, limit int) ([]model.OutboxMessage, error) {
	const q = `SELECT id, user_id, booking_id, payment_id, type, message, status, attempts, created_at, sent_at
	           FROM notification_outbox WHERE status = ? ORDER BY created_at ASC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, model.OutboxPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	msgs := make([]model.OutboxMessage, 0)
	for rows.Next() {
		var m model.OutboxMessage
		var sentAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.UserID, &m.BookingID, &m.PaymentID,
			&m.Type, &m.Message, &m.Status, &m.Attempts, &m.CreatedAt, &sentAt); err != nil {
			return nil, err
		}
		if sentAt.Valid {
			t := sentAt.Time
			m.SentAt = &t
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkSent records a successful publish.
func (r *OutboxRepo) MarkSent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notification_outbox SET status = ?, attempts = attempts + 1, sent_at = UTC_TIMESTAMP() WHERE id = ?`,
		model.OutboxSent, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkFailed counts a failed publish attempt.  The row stays pending until
// maxAttempts is reached, after which it is parked as failed for manual
// inspection.
func (r *OutboxRepo) MarkFailed(ctx context.Context, id string, maxAttempts int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notification_outbox
		 SET attempts = attempts + 1,
		     status = IF(attempts + 1 >= ?, ?, ?)
		 WHERE id = ?`,
		maxAttempts, model.OutboxFailed, model.OutboxPending, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CountPending returns the current outbox backlog, exported as a gauge.
func (r *OutboxRepo) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notification_outbox WHERE status = ?`, model.OutboxPending).Scan(&n)
	return n, err
}
