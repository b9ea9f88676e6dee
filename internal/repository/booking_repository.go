package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/ticketloom/booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  Each booking is keyed
// by its opaque booking_id; the UNIQUE constraint on that column backs the
// identifier-uniqueness guarantee.  All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `booking_id, user_id, event_id, number_of_tickets, total_amount, status, payment_id, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	var paymentID sql.NullString
	err := row.Scan(&b.BookingID, &b.UserID, &b.EventID, &b.NumberOfTickets,
		&b.TotalAmount, &b.Status, &paymentID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if paymentID.Valid {
		pid := paymentID.String
		b.PaymentID = &pid
	}
	return &b, nil
}

// Create inserts a new booking and reads the row back to populate the
// database-assigned timestamps.  A duplicate booking_id yields ErrDuplicate.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (booking_id, user_id, event_id, number_of_tickets, total_amount, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		b.BookingID, b.UserID, b.EventID, b.NumberOfTickets, b.TotalAmount.StringFixed(2), b.Status)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrDuplicate
		}
		return err
	}
	stored, err := r.GetByBookingID(ctx, b.BookingID)
	if err != nil {
		return err
	}
	b.CreatedAt = stored.CreatedAt
	b.UpdatedAt = stored.UpdatedAt
	return nil
}

// GetByBookingID returns the booking with the given booking_id, or
// ErrNotFound.
func (r *BookingRepo) GetByBookingID(ctx context.Context, bookingID string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// ListByUser returns all bookings for the given user, newest first.  When no
// bookings exist an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// SetStatus updates the booking status.  It returns ErrNotFound when no row
// with the given booking_id exists.  Callers only invoke it for an actual
// status change, so a zero rows-affected result means a missing row rather
// than an unchanged one.
func (r *BookingRepo) SetStatus(ctx context.Context, bookingID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE booking_id = ?`, status, bookingID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Confirm marks the booking confirmed and attaches the successful payment
// id in a single statement.
func (r *BookingRepo) Confirm(ctx context.Context, bookingID, paymentID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, payment_id = ? WHERE booking_id = ?`,
		model.StatusConfirmed, paymentID, bookingID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes the booking row.  Used only as saga compensation for a
// failed seat reservation, before the booking is ever acknowledged.
func (r *BookingRepo) Delete(ctx context.Context, bookingID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE booking_id = ?`, bookingID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
