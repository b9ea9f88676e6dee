package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/service"
)

// EventHandler exposes the inventory ledger's HTTP surface.  The seats
// endpoint is the only write path for availability; everything else is
// conventional CRUD.
type EventHandler struct {
	Events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	if events == nil {
		panic("nil service passed to NewEventHandler")
	}
	return &EventHandler{Events: events}
}

type eventBody struct {
	EventID        string  `json:"eventId"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Date           string  `json:"date"`
	Venue          string  `json:"venue"`
	TotalSeats     int     `json:"totalSeats"`
	AvailableSeats int     `json:"availableSeats"`
	TicketPrice    float64 `json:"ticketPrice"`
}

// Create handles POST /events.
func (h *EventHandler) Create(c echo.Context) error {
	var body eventBody
	if err := c.Bind(&body); err != nil {
		return respondErr(c, errInvalidBody())
	}
	date, err := time.Parse(time.RFC3339, body.Date)
	if err != nil {
		return respondErr(c, model.ErrInvalidRequest("date must be RFC 3339"))
	}
	ev := &model.Event{
		EventID:        body.EventID,
		Name:           body.Name,
		Category:       body.Category,
		Date:           date,
		Venue:          body.Venue,
		TotalSeats:     body.TotalSeats,
		AvailableSeats: body.AvailableSeats,
		TicketPrice:    decimal.NewFromFloat(body.TicketPrice),
	}
	if err := h.Events.CreateEvent(c.Request().Context(), ev); err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusCreated, "Event created", ev)
}

// Get handles GET /events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	ev, err := h.Events.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Event retrieved", ev)
}

// List handles GET /events.
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.Events.ListEvents(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return respondList(c, "Events retrieved", events, len(events))
}

// Update handles PUT /events/:id with a partial body.
func (h *EventHandler) Update(c echo.Context) error {
	var body struct {
		Name           *string  `json:"name"`
		Category       *string  `json:"category"`
		Date           *string  `json:"date"`
		Venue          *string  `json:"venue"`
		TotalSeats     *int     `json:"totalSeats"`
		AvailableSeats *int     `json:"availableSeats"`
		TicketPrice    *float64 `json:"ticketPrice"`
	}
	if err := c.Bind(&body); err != nil {
		return respondErr(c, errInvalidBody())
	}
	upd := repository.EventUpdate{
		Name:           body.Name,
		Category:       body.Category,
		Venue:          body.Venue,
		TotalSeats:     body.TotalSeats,
		AvailableSeats: body.AvailableSeats,
	}
	if body.Date != nil {
		date, err := time.Parse(time.RFC3339, *body.Date)
		if err != nil {
			return respondErr(c, model.ErrInvalidRequest("date must be RFC 3339"))
		}
		upd.Date = &date
	}
	if body.TicketPrice != nil {
		p := decimal.NewFromFloat(*body.TicketPrice)
		upd.TicketPrice = &p
	}
	ev, err := h.Events.UpdateEvent(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Event updated", ev)
}

// Delete handles DELETE /events/:id.
func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.Events.DeleteEvent(c.Request().Context(), c.Param("id")); err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Event deleted", nil)
}

// AdjustSeats handles PATCH /events/:id/seats with body
// {delta, expectedMinimum}.  This is the atomic seat accounting protocol: a
// negative delta reserves seats only when availability is at least
// expectedMinimum, a positive delta releases seats clamped at the event's
// total.  A lost reservation race responds 409 with the remaining count.
func (h *EventHandler) AdjustSeats(c echo.Context) error {
	var body struct {
		Delta           int `json:"delta"`
		ExpectedMinimum int `json:"expectedMinimum"`
	}
	if err := c.Bind(&body); err != nil {
		return respondErr(c, errInvalidBody())
	}
	available, err := h.Events.AdjustSeats(c.Request().Context(), c.Param("id"), body.Delta, body.ExpectedMinimum)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Seats adjusted", echo.Map{
		"eventId":        c.Param("id"),
		"availableSeats": available,
	})
}
