package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/service"
)

// PaymentHandler exposes the payment gateway's HTTP surface.
type PaymentHandler struct {
	Payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	if payments == nil {
		panic("nil service passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments}
}

// Charge handles POST /payments.  The response is 200 for both outcomes;
// the payment's status field states whether the charge succeeded.
func (h *PaymentHandler) Charge(c echo.Context) error {
	var body struct {
		BookingID string          `json:"bookingId"`
		UserID    string          `json:"userId"`
		Amount    decimal.Decimal `json:"amount"`
	}
	if err := c.Bind(&body); err != nil {
		return respondErr(c, errInvalidBody())
	}
	p, err := h.Payments.Process(c.Request().Context(), body.BookingID, body.UserID, body.Amount)
	if err != nil {
		return respondErr(c, err)
	}
	if p.Status != model.PaymentSuccess {
		// still a processed charge, so the status stays 200; the error
		// object carries the decline for callers that branch on codes
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Payment failed",
			"data":    p,
			"error":   &model.Error{Code: model.CodePaymentDeclined, Message: "Payment was declined"},
		})
	}
	return respond(c, http.StatusOK, "Payment successful", p)
}

// Get handles GET /payments/:id.
func (h *PaymentHandler) Get(c echo.Context) error {
	p, err := h.Payments.GetPayment(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Payment not found"})
	}
	if err != nil {
		return respondErr(c, err)
	}
	return respond(c, http.StatusOK, "Payment retrieved", p)
}
