package service

import (
	"context"
	"errors"

	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/monitoring"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/utils"
)

// EventService fronts the ledger's event records and the seat accounting
// protocol.  It translates repository sentinels into API errors; all seat
// mutations funnel through AdjustSeats.
type EventService struct {
	events *repository.EventRepo
}

func NewEventService(events *repository.EventRepo) *EventService {
	return &EventService{events: events}
}

// CreateEvent validates and persists a new event.  AvailableSeats starts at
// TotalSeats unless the caller set a smaller value.
func (s *EventService) CreateEvent(ctx context.Context, e *model.Event) error {
	if e.Name == "" || e.Venue == "" {
		return model.ErrInvalidRequest("name and venue are required")
	}
	if e.TotalSeats < 1 {
		return model.ErrInvalidRequest("totalSeats must be at least 1")
	}
	if e.AvailableSeats < 0 {
		return model.ErrInvalidRequest("availableSeats must not be negative")
	}
	if e.TicketPrice.IsNegative() {
		return model.ErrInvalidRequest("ticketPrice must not be negative")
	}
	if e.AvailableSeats == 0 || e.AvailableSeats > e.TotalSeats {
		e.AvailableSeats = e.TotalSeats
	}
	if e.EventID == "" {
		e.EventID = utils.GenerateID("EVT")
	}
	err := s.events.Create(ctx, e)
	if errors.Is(err, repository.ErrDuplicate) {
		return model.ErrInvalidRequest("eventId already exists")
	}
	return err
}

// GetEvent returns one event.
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	e, err := s.events.GetByEventID(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrEventNotFound()
	}
	return e, err
}

// ListEvents returns all events.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// UpdateEvent applies a partial update.
func (s *EventService) UpdateEvent(ctx context.Context, eventID string, upd repository.EventUpdate) (*model.Event, error) {
	e, err := s.events.Update(ctx, eventID, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.ErrEventNotFound()
	}
	return e, err
}

// DeleteEvent removes an event.
func (s *EventService) DeleteEvent(ctx context.Context, eventID string) error {
	err := s.events.Delete(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ErrEventNotFound()
	}
	return err
}

// AdjustSeats runs the conditional seat adjustment and returns the resulting
// availability.  A zero delta is rejected; reservations must state the
// availability floor they require.
func (s *EventService) AdjustSeats(ctx context.Context, eventID string, delta, expectedMinimum int) (int, error) {
	if delta == 0 {
		return 0, model.ErrInvalidRequest("delta must not be zero")
	}
	if expectedMinimum < 0 {
		return 0, model.ErrInvalidRequest("expectedMinimum must not be negative")
	}
	available, err := s.events.AdjustSeats(ctx, eventID, delta, expectedMinimum)
	switch {
	case errors.Is(err, repository.ErrInsufficientSeats):
		monitoring.ReservationResult("conflict")
		return available, model.ErrReservationFailed(available)
	case errors.Is(err, repository.ErrNotFound):
		return 0, model.ErrEventNotFound()
	case err != nil:
		return 0, err
	}
	monitoring.ReservationResult("accepted")
	return available, nil
}
