package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the inventory record owned by the ledger service.  The seat
// counter invariant 0 <= AvailableSeats <= TotalSeats is enforced by the
// ledger's conditional updates, never by callers.
type Event struct {
	ID             uint64          `json:"-"`
	EventID        string          `json:"eventId"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Date           time.Time       `json:"date"`
	Venue          string          `json:"venue"`
	TotalSeats     int             `json:"totalSeats"`
	AvailableSeats int             `json:"availableSeats"`
	TicketPrice    decimal.Decimal `json:"ticketPrice"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
