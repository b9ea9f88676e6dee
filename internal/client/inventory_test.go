package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketloom/booking/internal/config"
	"github.com/ticketloom/booking/internal/model"
)

func testCollaborator(url string) config.CollaboratorConfig {
	return config.CollaboratorConfig{
		BaseURL:    url,
		Timeout:    2 * time.Second,
		RetryCount: 0,
		RetryWait:  10 * time.Millisecond,
	}
}

func TestGetEvent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/events/E1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"eventId":        "E1",
				"name":           "Concert",
				"totalSeats":     100,
				"availableSeats": 40,
				"ticketPrice":    "50",
			},
		})
	}))
	defer ts.Close()

	c := NewInventoryClient(testCollaborator(ts.URL))
	ev, err := c.GetEvent(context.Background(), "E1")
	require.NoError(t, err)
	assert.Equal(t, "E1", ev.EventID)
	assert.Equal(t, 40, ev.AvailableSeats)
}

func TestGetEventNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Event not found"})
	}))
	defer ts.Close()

	c := NewInventoryClient(testCollaborator(ts.URL))
	_, err := c.GetEvent(context.Background(), "missing")
	e, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.CodeEventNotFound, e.Code)
}

func TestGetEventUpstreamDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewInventoryClient(testCollaborator(ts.URL))
	_, err := c.GetEvent(context.Background(), "E1")
	e, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.CodeUpstreamUnavailable, e.Code)
}

func TestReserveSeats(t *testing.T) {
	var got struct {
		Delta           int `json:"delta"`
		ExpectedMinimum int `json:"expectedMinimum"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/events/E1/seats", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"eventId": "E1", "availableSeats": 97},
		})
	}))
	defer ts.Close()

	c := NewInventoryClient(testCollaborator(ts.URL))
	require.NoError(t, c.ReserveSeats(context.Background(), "E1", 3))
	assert.Equal(t, -3, got.Delta)
	assert.Equal(t, 3, got.ExpectedMinimum)
}

func TestReserveSeatsConflict(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Seat reservation failed. Only 2 seats remaining.",
			"error": map[string]any{
				"code":      model.CodeReservationFailed,
				"message":   "Seat reservation failed. Only 2 seats remaining.",
				"remaining": 2,
			},
		})
	}))
	defer ts.Close()

	c := NewInventoryClient(testCollaborator(ts.URL))
	err := c.ReserveSeats(context.Background(), "E1", 5)
	e, ok := model.AsError(err)
	require.True(t, ok)
	assert.Equal(t, model.CodeReservationFailed, e.Code)
	assert.Equal(t, 2, e.Remaining)
}

func TestReleaseSeats(t *testing.T) {
	var got struct {
		Delta           int `json:"delta"`
		ExpectedMinimum int `json:"expectedMinimum"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"eventId": "E1", "availableSeats": 100},
		})
	}))
	defer ts.Close()

	c := NewInventoryClient(testCollaborator(ts.URL))
	require.NoError(t, c.ReleaseSeats(context.Background(), "E1", 3))
	assert.Equal(t, 3, got.Delta)
	assert.Equal(t, 0, got.ExpectedMinimum)
}
