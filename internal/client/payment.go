package client

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/ticketloom/booking/internal/config"
	"github.com/ticketloom/booking/internal/model"
)

// PaymentClient talks to the payment gateway.  A declined charge is a
// business outcome, not a transport failure: it is reported through the
// returned payment's status and never trips the breaker.
type PaymentClient struct {
	http *resty.Client
	brk  *Breaker
}

func NewPaymentClient(cfg config.CollaboratorConfig) *PaymentClient {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait)
	return &PaymentClient{
		http: c,
		brk:  NewBreaker("payment", 5, cfg.Timeout*2),
	}
}

type chargeRequest struct {
	BookingID string          `json:"bookingId"`
	UserID    string          `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
}

type paymentEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    *model.Payment `json:"data"`
	Error   *model.Error   `json:"error"`
}

// Charge submits a payment for the booking.  The gateway is idempotent per
// booking: re-submitting a booking that already has a successful payment
// returns that payment instead of charging again.
func (c *PaymentClient) Charge(ctx context.Context, bookingID, userID string, amount decimal.Decimal) (*model.Payment, error) {
	var out paymentEnvelope
	var resp *resty.Response
	err := c.brk.Do(func() error {
		var e error
		resp, e = c.http.R().
			SetContext(ctx).
			SetBody(chargeRequest{BookingID: bookingID, UserID: userID, Amount: amount}).
			SetResult(&out).
			SetError(&out).
			Post("/payments")
		return e
	})
	if err != nil {
		return nil, model.ErrUpstreamUnavailable("payment service")
	}
	if resp.IsError() || out.Data == nil {
		return nil, model.ErrUpstreamUnavailable("payment service")
	}
	return out.Data, nil
}
