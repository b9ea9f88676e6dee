package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/ticketloom/booking/internal/config"
	"github.com/ticketloom/booking/internal/model"
)

// InventoryClient talks to the inventory ledger over HTTP.  All mutations go
// through the ledger's conditional seat adjustment so this client never
// performs a read-modify-write on seat counts itself.
type InventoryClient struct {
	http *resty.Client
	brk  *Breaker
}

// NewInventoryClient builds a client against the ledger base URL with the
// configured timeout and retry policy.  Retries are safe here: reads are
// idempotent and adjustments are guarded server side.
func NewInventoryClient(cfg config.CollaboratorConfig) *InventoryClient {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait)
	return &InventoryClient{
		http: c,
		brk:  NewBreaker("inventory", 5, cfg.Timeout*2),
	}
}

type eventEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    *model.Event `json:"data"`
	Error   *model.Error `json:"error"`
}

type seatsEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		EventID        string `json:"eventId"`
		AvailableSeats int    `json:"availableSeats"`
	} `json:"data"`
	Error *model.Error `json:"error"`
}

// GetEvent fetches one event by its public id.
func (c *InventoryClient) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	var out eventEnvelope
	var resp *resty.Response
	err := c.brk.Do(func() error {
		var e error
		resp, e = c.http.R().
			SetContext(ctx).
			SetResult(&out).
			SetError(&out).
			Get("/events/" + eventID)
		return e
	})
	if err != nil {
		return nil, model.ErrUpstreamUnavailable("event service")
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, model.ErrEventNotFound()
	case resp.IsError() || out.Data == nil:
		return nil, model.ErrUpstreamUnavailable("event service")
	}
	return out.Data, nil
}

// ReserveSeats atomically takes n seats from the event.  A conflict response
// means another booking won the seats first; it carries how many remain.
func (c *InventoryClient) ReserveSeats(ctx context.Context, eventID string, n int) error {
	resp, out, err := c.adjust(ctx, eventID, -n, n)
	if err != nil {
		return model.ErrUpstreamUnavailable("event service")
	}
	switch {
	case resp.StatusCode() == http.StatusConflict:
		remaining := 0
		if out.Error != nil {
			remaining = out.Error.Remaining
		}
		return model.ErrReservationFailed(remaining)
	case resp.StatusCode() == http.StatusNotFound:
		return model.ErrEventNotFound()
	case resp.IsError():
		return model.ErrUpstreamUnavailable("event service")
	}
	return nil
}

// ReleaseSeats returns n seats to the event.  The ledger clamps the result
// at the event's total, so over-release cannot inflate inventory.
func (c *InventoryClient) ReleaseSeats(ctx context.Context, eventID string, n int) error {
	resp, _, err := c.adjust(ctx, eventID, n, 0)
	if err != nil {
		return model.ErrUpstreamUnavailable("event service")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return model.ErrEventNotFound()
	}
	if resp.IsError() {
		return fmt.Errorf("release seats: ledger responded %d", resp.StatusCode())
	}
	return nil
}

func (c *InventoryClient) adjust(ctx context.Context, eventID string, delta, expectedMinimum int) (*resty.Response, *seatsEnvelope, error) {
	var out seatsEnvelope
	var resp *resty.Response
	err := c.brk.Do(func() error {
		var e error
		resp, e = c.http.R().
			SetContext(ctx).
			SetBody(map[string]int{"delta": delta, "expectedMinimum": expectedMinimum}).
			SetResult(&out).
			SetError(&out).
			Patch(fmt.Sprintf("/events/%s/seats", eventID))
		return e
	})
	return resp, &out, err
}
