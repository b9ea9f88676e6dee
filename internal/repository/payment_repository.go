package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ticketloom/booking/internal/model"
)

// PaymentRepo provides data access to the payments table.  The gateway's
// idempotency guarantee rests on GetSuccessfulByBookingID: before simulating
// a new charge the service checks for an existing successful payment for the
// same booking and returns it instead.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `payment_id, booking_id, amount, status, payment_method, transaction_date`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.PaymentID, &p.BookingID, &p.Amount, &p.Status,
		&p.PaymentMethod, &p.TransactionDate)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateWithOutbox inserts the payment record and, when out is non-nil, the
// notification outbox row in the same transaction.  Writing both rows
// atomically is what makes the notification an outbox: the message cannot
// exist without its payment and vice versa.
func (r *PaymentRepo) CreateWithOutbox(ctx context.Context, p *model.Payment, out *model.OutboxMessage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO payments (payment_id, booking_id, amount, status, payment_method, transaction_date)
	           VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, p.PaymentID, p.BookingID,
		p.Amount.StringFixed(2), p.Status, p.PaymentMethod, p.TransactionDate.UTC()); err != nil {
		return err
	}
	if out != nil {
		const oq = `INSERT INTO notification_outbox (id, user_id, booking_id, payment_id, type, message, status)
		            VALUES (?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.ExecContext(ctx, oq, out.ID, out.UserID, out.BookingID,
			out.PaymentID, out.Type, out.Message, model.OutboxPending); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByPaymentID returns the payment with the given payment_id, or
// ErrNotFound.
func (r *PaymentRepo) GetByPaymentID(ctx context.Context, paymentID string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = ?`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, paymentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// GetSuccessfulByBookingID returns the successful payment recorded for a
// booking, or ErrNotFound when the booking has never been charged
// successfully.
func (r *PaymentRepo) GetSuccessfulByBookingID(ctx context.Context, bookingID string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments
	           WHERE booking_id = ? AND status = ? ORDER BY id DESC LIMIT 1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, bookingID, model.PaymentSuccess))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}
