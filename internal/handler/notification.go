package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ticketloom/booking/internal/service"
)

// NotificationHandler exposes the notification sink's HTTP surface.  Most
// notifications arrive through the dispatch queue; Send exists for direct
// fire-and-forget calls.
type NotificationHandler struct {
	Notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	if notifications == nil {
		panic("nil service passed to NewNotificationHandler")
	}
	return &NotificationHandler{Notifications: notifications}
}

// Send handles POST /notifications/send.
func (h *NotificationHandler) Send(c echo.Context) error {
	var body struct {
		UserID    string `json:"userId"`
		BookingID string `json:"bookingId"`
		PaymentID string `json:"paymentId"`
		Type      string `json:"type"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&body); err != nil {
		return respondErr(c, errInvalidBody())
	}
	n, err := h.Notifications.Send(c.Request().Context(), body.UserID, body.BookingID, body.PaymentID, body.Type, body.Message)
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusCreated, "Notification sent", n)
}

// ListByUser handles GET /notifications/user/:userId.
func (h *NotificationHandler) ListByUser(c echo.Context) error {
	notifications, err := h.Notifications.ListByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return respondErr(c, err)
	}
	return respondList(c, "Notifications retrieved", notifications, len(notifications))
}
