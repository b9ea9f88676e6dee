package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ticketloom/booking/internal/service"
)

// BookingHandler exposes the booking orchestrator's HTTP surface.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	if bookings == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings}
}

// Create handles POST /bookings.  A created booking is always 201; the
// message distinguishes the confirmed, payment-pending and
// payment-unavailable outcomes.
func (h *BookingHandler) Create(c echo.Context) error {
	var body struct {
		UserID          string `json:"userId"`
		EventID         string `json:"eventId"`
		NumberOfTickets int    `json:"numberOfTickets"`
	}
	if err := c.Bind(&body); err != nil {
		return respondErr(c, errInvalidBody())
	}
	booking, message, err := h.Bookings.CreateBooking(c.Request().Context(), body.UserID, body.EventID, body.NumberOfTickets)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusCreated, message, booking)
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	booking, err := h.Bookings.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Booking retrieved", booking)
}

// ListByUser handles GET /bookings/user/:userId.
func (h *BookingHandler) ListByUser(c echo.Context) error {
	bookings, err := h.Bookings.ListBookings(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return respondErr(c, err)
	}
	return respondList(c, "Bookings retrieved", bookings, len(bookings))
}

// UpdateStatus handles PATCH /bookings/:id/status with body {status}.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return respondErr(c, errInvalidBody())
	}
	booking, err := h.Bookings.UpdateStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Booking status updated", booking)
}
