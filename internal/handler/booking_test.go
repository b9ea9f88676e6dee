package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketloom/booking/internal/handler"
	"github.com/ticketloom/booking/internal/model"
	"github.com/ticketloom/booking/internal/repository"
	"github.com/ticketloom/booking/internal/router"
	"github.com/ticketloom/booking/internal/service"
)

// stub collaborators backing a real BookingService, so the handler tests
// exercise the full request path below the HTTP layer.

type stubStore struct {
	bookings map[string]*model.Booking
}

func (s *stubStore) Create(_ context.Context, b *model.Booking) error {
	cp := *b
	s.bookings[b.BookingID] = &cp
	return nil
}

func (s *stubStore) GetByBookingID(_ context.Context, id string) (*model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *stubStore) ListByUser(_ context.Context, userID string) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *stubStore) SetStatus(_ context.Context, id, status string) error {
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	return nil
}

func (s *stubStore) Confirm(_ context.Context, id, paymentID string) error {
	b, ok := s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = model.StatusConfirmed
	b.PaymentID = &paymentID
	return nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	delete(s.bookings, id)
	return nil
}

type stubLedger struct {
	event *model.Event
}

func (l *stubLedger) GetEvent(_ context.Context, eventID string) (*model.Event, error) {
	if l.event == nil || l.event.EventID != eventID {
		return nil, model.ErrEventNotFound()
	}
	cp := *l.event
	return &cp, nil
}

func (l *stubLedger) ReserveSeats(_ context.Context, _ string, n int) error {
	if l.event.AvailableSeats < n {
		return model.ErrReservationFailed(l.event.AvailableSeats)
	}
	l.event.AvailableSeats -= n
	return nil
}

func (l *stubLedger) ReleaseSeats(_ context.Context, _ string, n int) error {
	l.event.AvailableSeats += n
	return nil
}

type stubGateway struct{ status string }

func (g *stubGateway) Charge(_ context.Context, bookingID, _ string, amount decimal.Decimal) (*model.Payment, error) {
	return &model.Payment{PaymentID: "PAY1", BookingID: bookingID, Amount: amount, Status: g.status}, nil
}

func newBookingAPI(paymentStatus string) (*echo.Echo, *stubStore) {
	store := &stubStore{bookings: make(map[string]*model.Booking)}
	ledger := &stubLedger{event: &model.Event{
		EventID:        "E1",
		Name:           "Concert",
		TotalSeats:     100,
		AvailableSeats: 100,
		TicketPrice:    decimal.NewFromInt(50),
	}}
	svc := service.NewBookingService(store, ledger, &stubGateway{status: paymentStatus})
	e := echo.New()
	router.RegisterBooking(e, handler.NewBookingHandler(svc))
	return e, store
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
	Error   *model.Error    `json:"error"`
}

func doJSON(e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestCreateBookingEndpointConfirmed(t *testing.T) {
	e, _ := newBookingAPI(model.PaymentSuccess)

	rec, env := doJSON(e, http.MethodPost, "/bookings", `{"userId":"u1","eventId":"E1","numberOfTickets":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, service.MsgBookingConfirmed, env.Message)

	var b model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &b))
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(100)))
}

func TestCreateBookingEndpointPaymentPending(t *testing.T) {
	e, _ := newBookingAPI(model.PaymentFailed)

	rec, env := doJSON(e, http.MethodPost, "/bookings", `{"userId":"u1","eventId":"E1","numberOfTickets":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, service.MsgPaymentPending, env.Message)
}

func TestCreateBookingEndpointUnknownEvent(t *testing.T) {
	e, _ := newBookingAPI(model.PaymentSuccess)

	rec, env := doJSON(e, http.MethodPost, "/bookings", `{"userId":"u1","eventId":"nope","numberOfTickets":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, model.CodeEventNotFound, env.Error.Code)
}

func TestCreateBookingEndpointInvalidBody(t *testing.T) {
	e, _ := newBookingAPI(model.PaymentSuccess)

	rec, env := doJSON(e, http.MethodPost, "/bookings", `{"userId":"u1","numberOfTickets":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, model.CodeInvalidRequest, env.Error.Code)
}

func TestGetBookingEndpoint(t *testing.T) {
	e, _ := newBookingAPI(model.PaymentSuccess)

	_, created := doJSON(e, http.MethodPost, "/bookings", `{"userId":"u1","eventId":"E1","numberOfTickets":1}`)
	var b model.Booking
	require.NoError(t, json.Unmarshal(created.Data, &b))

	rec, env := doJSON(e, http.MethodGet, "/bookings/"+b.BookingID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, env = doJSON(e, http.MethodGet, "/bookings/BK-missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, model.CodeBookingNotFound, env.Error.Code)
}

func TestListBookingsEndpoint(t *testing.T) {
	e, _ := newBookingAPI(model.PaymentSuccess)

	doJSON(e, http.MethodPost, "/bookings", `{"userId":"u7","eventId":"E1","numberOfTickets":1}`)
	doJSON(e, http.MethodPost, "/bookings", `{"userId":"u7","eventId":"E1","numberOfTickets":2}`)

	rec, env := doJSON(e, http.MethodGet, "/bookings/user/u7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, env.Count)

	rec, env = doJSON(e, http.MethodGet, "/bookings/user/nobody", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.Count)
	assert.Equal(t, "[]", strings.TrimSpace(string(env.Data)))
}

func TestUpdateStatusEndpoint(t *testing.T) {
	e, _ := newBookingAPI(model.PaymentSuccess)

	_, created := doJSON(e, http.MethodPost, "/bookings", `{"userId":"u1","eventId":"E1","numberOfTickets":1}`)
	var b model.Booking
	require.NoError(t, json.Unmarshal(created.Data, &b))

	rec, env := doJSON(e, http.MethodPut, "/bookings/"+b.BookingID+"/status", `{"status":"cancelled"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Booking
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, model.StatusCancelled, updated.Status)

	// cancelled is terminal; PATCH is mounted alongside PUT
	rec, env = doJSON(e, http.MethodPatch, "/bookings/"+b.BookingID+"/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, model.CodeInvalidStatus, env.Error.Code)

	rec, env = doJSON(e, http.MethodPatch, "/bookings/"+b.BookingID+"/status", `{"status":"paid"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.CodeInvalidStatus, env.Error.Code)
}
