package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/ticketloom/booking/internal/model"
)

// EventRepo provides data access to the events table.  Seat counters are
// only ever mutated through the conditional statements in AdjustSeats, which
// keep 0 <= available_seats <= total_seats under any interleaving of
// concurrent reservations and releases.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `event_id, name, category, date, venue, total_seats, available_seats, ticket_price, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.EventID, &e.Name, &e.Category, &e.Date, &e.Venue,
		&e.TotalSeats, &e.AvailableSeats, &e.TicketPrice, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event.  A duplicate event_id yields ErrDuplicate.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (event_id, name, category, date, venue, total_seats, available_seats, ticket_price)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, e.EventID, e.Name, e.Category, e.Date.UTC(), e.Venue,
		e.TotalSeats, e.AvailableSeats, e.TicketPrice.StringFixed(2))
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrDuplicate
		}
		return err
	}
	stored, err := r.GetByEventID(ctx, e.EventID)
	if err != nil {
		return err
	}
	*e = *stored
	return nil
}

// GetByEventID returns the event with the given event_id, or ErrNotFound.
func (r *EventRepo) GetByEventID(ctx context.Context, eventID string) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE event_id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, eventID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// List returns all events, newest first.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// EventUpdate carries the optional fields of an event update.  Nil fields
// are left untouched.  Seat counters set here are administrative overrides;
// available_seats is clamped into [0, total_seats] by the statement itself.
type EventUpdate struct {
	Name           *string
	Category       *string
	Date           *time.Time
	Venue          *string
	TotalSeats     *int
	AvailableSeats *int
	TicketPrice    *decimal.Decimal
}

// Update applies the provided fields to an existing event and returns the
// updated row.  It returns ErrNotFound when the event does not exist.
func (r *EventRepo) Update(ctx context.Context, eventID string, upd EventUpdate) (*model.Event, error) {
	query := `UPDATE events SET `
	args := make([]any, 0, 8)
	first := true
	add := func(col string, v any) {
		if !first {
			query += ", "
		}
		query += col
		args = append(args, v)
		first = false
	}
	if upd.Name != nil {
		add("name = ?", *upd.Name)
	}
	if upd.Category != nil {
		add("category = ?", *upd.Category)
	}
	if upd.Date != nil {
		add("date = ?", upd.Date.UTC())
	}
	if upd.Venue != nil {
		add("venue = ?", *upd.Venue)
	}
	if upd.TotalSeats != nil {
		add("total_seats = ?", *upd.TotalSeats)
		// shrink availability together with capacity
		add("available_seats = LEAST(available_seats, ?)", *upd.TotalSeats)
	}
	if upd.AvailableSeats != nil {
		add("available_seats = GREATEST(0, LEAST(total_seats, ?))", *upd.AvailableSeats)
	}
	if upd.TicketPrice != nil {
		add("ticket_price = ?", upd.TicketPrice.StringFixed(2))
	}
	if first {
		return r.GetByEventID(ctx, eventID)
	}
	query += ` WHERE event_id = ?`
	args = append(args, eventID)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, err
	}
	return r.GetByEventID(ctx, eventID)
}

// Delete removes an event.  It returns ErrNotFound when the event does not
// exist.
func (r *EventRepo) Delete(ctx context.Context, eventID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = ?`, eventID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// AdjustSeats applies an atomic bounded seat adjustment and returns the new
// availability.
//
// A negative delta is a reservation: the decrement happens only when the
// current availability is at least expectedMinimum (callers pass the number
// of seats being taken), as a single conditional UPDATE.  Losing the race
// yields ErrInsufficientSeats together with the availability observed at
// rejection time, so the caller can report the remaining count.
//
// A positive delta is a release: the increment is clamped at total_seats by
// the statement itself, so repeated or oversized releases can never push
// availability past capacity.
func (r *EventRepo) AdjustSeats(ctx context.Context, eventID string, delta, expectedMinimum int) (int, error) {
	var res sql.Result
	var err error
	if delta < 0 {
		const q = `UPDATE events SET available_seats = available_seats + ?
		           WHERE event_id = ? AND available_seats >= ? AND available_seats + ? >= 0`
		res, err = r.db.ExecContext(ctx, q, delta, eventID, expectedMinimum, delta)
	} else {
		const q = `UPDATE events SET available_seats = LEAST(total_seats, available_seats + ?)
		           WHERE event_id = ?`
		res, err = r.db.ExecContext(ctx, q, delta, eventID)
	}
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	available, getErr := r.availability(ctx, eventID)
	if getErr != nil {
		return 0, getErr
	}
	if delta < 0 && n == 0 {
		return available, ErrInsufficientSeats
	}
	return available, nil
}

func (r *EventRepo) availability(ctx context.Context, eventID string) (int, error) {
	var available int
	err := r.db.QueryRowContext(ctx,
		`SELECT available_seats FROM events WHERE event_id = ?`, eventID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return available, err
}
