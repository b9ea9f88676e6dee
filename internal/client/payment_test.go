package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketloom/booking/internal/model"
)

func TestChargeSuccess(t *testing.T) {
	var got chargeRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Payment successful",
			"data": map[string]any{
				"paymentId": "PAY123",
				"bookingId": got.BookingID,
				"amount":    "100",
				"status":    "success",
			},
		})
	}))
	defer ts.Close()

	c := NewPaymentClient(testCollaborator(ts.URL))
	p, err := c.Charge(context.Background(), "BK1", "u1", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "PAY123", p.PaymentID)
	assert.Equal(t, model.PaymentSuccess, p.Status)
	assert.Equal(t, "BK1", got.BookingID)
	assert.Equal(t, "u1", got.UserID)
}

func TestChargeDeclinedIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Payment failed",
			"data": map[string]any{
				"paymentId": "PAY124",
				"bookingId": "BK1",
				"amount":    "100",
				"status":    "failed",
			},
		})
	}))
	defer ts.Close()

	c := NewPaymentClient(testCollaborator(ts.URL))
	p, err := c.Charge(context.Background(), "BK1", "u1", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, p.Status)
}

func TestChargeGatewayDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewPaymentClient(testCollaborator(ts.URL))
	_, err := c.Charge(context.Background(), "BK1", "u1", decimal.NewFromInt(100))
	e, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.CodeUpstreamUnavailable, e.Code)
}

func TestChargeUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused

	c := NewPaymentClient(testCollaborator(ts.URL))
	_, err := c.Charge(context.Background(), "BK1", "u1", decimal.NewFromInt(100))
	e, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.CodeUpstreamUnavailable, e.Code)
}
