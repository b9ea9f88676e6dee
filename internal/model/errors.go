package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-checkable error codes surfaced by the booking API.  Each code maps
// to a fixed HTTP status so that handlers never leak internal errors.
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeEventNotFound         = "EVENT_NOT_FOUND"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeReservationFailed     = "INVENTORY_RESERVATION_FAILED"
	CodeUpstreamUnavailable   = "UPSTREAM_UNAVAILABLE"
	CodePaymentDeclined       = "PAYMENT_DECLINED"
	CodeBookingNotFound       = "BOOKING_NOT_FOUND"
	CodeInvalidStatus         = "INVALID_STATUS"
)

// Error is a user-presentable failure with a machine-checkable code.  The
// Remaining field carries the remaining seat count for insufficient
// inventory failures so the caller can display it.
type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Remaining int    `json:"remaining,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus maps the error code to the status the booking API responds with.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest, CodeInsufficientInventory, CodeInvalidStatus:
		return http.StatusBadRequest
	case CodeEventNotFound, CodeBookingNotFound:
		return http.StatusNotFound
	case CodeReservationFailed:
		return http.StatusConflict
	case CodeUpstreamUnavailable:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// AsError extracts a *Error from err, if it carries one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func ErrInvalidRequest(msg string) *Error {
	return &Error{Code: CodeInvalidRequest, Message: msg}
}

func ErrEventNotFound() *Error {
	return &Error{Code: CodeEventNotFound, Message: "Event not found"}
}

func ErrInsufficientInventory(remaining int) *Error {
	return &Error{
		Code:      CodeInsufficientInventory,
		Message:   fmt.Sprintf("Insufficient seats available. Only %d seats remaining.", remaining),
		Remaining: remaining,
	}
}

func ErrReservationFailed(remaining int) *Error {
	return &Error{
		Code:      CodeReservationFailed,
		Message:   fmt.Sprintf("Seat reservation failed. Only %d seats remaining.", remaining),
		Remaining: remaining,
	}
}

func ErrUpstreamUnavailable(service string) *Error {
	return &Error{Code: CodeUpstreamUnavailable, Message: fmt.Sprintf("Error connecting to %s", service)}
}

func ErrBookingNotFound() *Error {
	return &Error{Code: CodeBookingNotFound, Message: "Booking not found"}
}

func ErrInvalidStatus(msg string) *Error {
	return &Error{Code: CodeInvalidStatus, Message: msg}
}
