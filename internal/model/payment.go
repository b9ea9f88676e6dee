package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment outcomes reported by the gateway.
const (
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// Payment is the gateway's record of a charge attempt.  At most one
// successful payment exists per booking; the gateway is idempotent keyed
// by BookingID.
type Payment struct {
	ID              uint64          `json:"-"`
	PaymentID       string          `json:"paymentId"`
	BookingID       string          `json:"bookingId"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	TransactionDate time.Time       `json:"transactionDate"`
}
