package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPendingPayment))
	assert.True(t, ValidStatus(StatusConfirmed))
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus("paid"))
	assert.False(t, ValidStatus(""))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPendingPayment, StatusConfirmed, true},
		{StatusPendingPayment, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPendingPayment, false},
		{StatusCancelled, StatusPendingPayment, false},
		{StatusCancelled, StatusConfirmed, false},
		// repeating the current status is an idempotent no-op
		{StatusPendingPayment, StatusPendingPayment, true},
		{StatusConfirmed, StatusConfirmed, true},
		{StatusCancelled, StatusCancelled, true},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusPendingPayment))
	assert.False(t, IsTerminal(StatusConfirmed))
}

func TestInferNotificationType(t *testing.T) {
	assert.Equal(t, "custom", InferNotificationType("custom", "BK1", "PAY1"))
	assert.Equal(t, NotificationPaymentConfirmation, InferNotificationType("", "BK1", "PAY1"))
	assert.Equal(t, NotificationBookingConfirmation, InferNotificationType("", "BK1", ""))
	assert.Equal(t, NotificationGeneral, InferNotificationType("", "", ""))
}
