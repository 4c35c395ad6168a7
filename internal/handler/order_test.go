package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-booking/internal/booking"
	q "github.com/iliyamo/flight-seat-booking/internal/queue"
)

// memStore backs the booking service in memory for handler tests.
type memStore struct {
	mu       sync.Mutex
	seatings map[uint64]booking.Seating
	tickets  []booking.Ticket
	orders   map[uint64]*booking.Order
	nextID   uint64
}

func newMemStore() *memStore {
	return &memStore{
		seatings: map[uint64]booking.Seating{1: {Rows: 10, SeatsInRow: 4}},
		orders:   make(map[uint64]*booking.Order),
		nextID:   1,
	}
}

func (m *memStore) Seating(_ context.Context, flightID uint64) (booking.Seating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seatings[flightID]
	if !ok {
		return booking.Seating{}, booking.ErrFlightNotFound
	}
	return s, nil
}

func (m *memStore) OccupiedSeats(_ context.Context, flightID uint64) ([]booking.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	places := make([]booking.Place, 0)
	for _, t := range m.tickets {
		if t.FlightID == flightID {
			places = append(places, booking.Place{Row: t.Row, Seat: t.Seat})
		}
	}
	return places, nil
}

func (m *memStore) CreateWithTickets(_ context.Context, userID uint64, reference string, reqs []booking.TicketRequest) (*booking.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range reqs {
		for _, t := range m.tickets {
			if t.FlightID == r.FlightID && t.Row == r.Row && t.Seat == r.Seat {
				return nil, booking.ErrSeatTaken
			}
		}
	}
	order := &booking.Order{ID: m.nextID, Reference: reference, UserID: userID}
	m.nextID++
	for _, r := range reqs {
		t := booking.Ticket{ID: m.nextID, FlightID: r.FlightID, OrderID: order.ID, Row: r.Row, Seat: r.Seat}
		m.nextID++
		m.tickets = append(m.tickets, t)
		order.Tickets = append(order.Tickets, t)
	}
	m.orders[order.ID] = order
	return order, nil
}

func (m *memStore) InsertTicket(_ context.Context, orderID, flightID uint64, row, seat int) (*booking.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tickets {
		if t.FlightID == flightID && t.Row == row && t.Seat == seat {
			return nil, booking.ErrSeatTaken
		}
	}
	t := booking.Ticket{ID: m.nextID, FlightID: flightID, OrderID: orderID, Row: row, Seat: seat}
	m.nextID++
	m.tickets = append(m.tickets, t)
	if o, ok := m.orders[orderID]; ok {
		o.Tickets = append(o.Tickets, t)
	}
	return &t, nil
}

func (m *memStore) GetForUser(_ context.Context, orderID, userID uint64) (*booking.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, booking.ErrOrderNotFound
	}
	return o, nil
}

func (m *memStore) ListByUser(_ context.Context, userID uint64) ([]booking.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := make([]booking.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func newOrderHandler(t *testing.T) (*OrderHandler, *memStore, *[]q.OrderConfirmedEvent, *sync.Mutex) {
	t.Helper()
	store := newMemStore()
	h := NewOrderHandler(booking.NewService(store, store), store)

	var mu sync.Mutex
	published := make([]q.OrderConfirmedEvent, 0)
	h.publish = func(_ context.Context, ev q.OrderConfirmedEvent) error {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, ev)
		return nil
	}
	return h, store, &published, &mu
}

func doJSON(h echo.HandlerFunc, method, target, body string, userID uint64, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	_ = h(c)
	return rec
}

func TestCreateOrderEndpoint(t *testing.T) {
	h, store, _, _ := newOrderHandler(t)

	body := `{"tickets":[{"flight_id":1,"row":1,"seat":1},{"flight_id":1,"row":1,"seat":2}]}`
	rec := doJSON(h.CreateOrder, http.MethodPost, "/v1/orders", body, 7)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order booking.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, uint64(7), order.UserID)
	assert.Len(t, order.Tickets, 2)
	assert.NotEmpty(t, order.Reference)
	assert.Len(t, store.tickets, 2)
}

func TestCreateOrderEndpointEmpty(t *testing.T) {
	h, _, _, _ := newOrderHandler(t)

	rec := doJSON(h.CreateOrder, http.MethodPost, "/v1/orders", `{"tickets":[]}`, 7)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderEndpointInvalidSeat(t *testing.T) {
	h, store, _, _ := newOrderHandler(t)

	body := `{"tickets":[{"flight_id":1,"row":99,"seat":99}]}`
	rec := doJSON(h.CreateOrder, http.MethodPost, "/v1/orders", body, 7)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "row number must be in available range: (1, 10)", resp.Fields["row"])
	assert.Equal(t, "seat number must be in available range: (1, 4)", resp.Fields["seat"])
	assert.Empty(t, store.tickets)
}

func TestCreateOrderEndpointConflict(t *testing.T) {
	h, _, _, _ := newOrderHandler(t)

	body := `{"tickets":[{"flight_id":1,"row":2,"seat":2}]}`
	rec := doJSON(h.CreateOrder, http.MethodPost, "/v1/orders", body, 7)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(h.CreateOrder, http.MethodPost, "/v1/orders", body, 8)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateOrderEndpointUnknownFlight(t *testing.T) {
	h, _, _, _ := newOrderHandler(t)

	body := `{"tickets":[{"flight_id":42,"row":1,"seat":1}]}`
	rec := doJSON(h.CreateOrder, http.MethodPost, "/v1/orders", body, 7)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderEndpointOwnership(t *testing.T) {
	h, _, _, _ := newOrderHandler(t)

	body := `{"tickets":[{"flight_id":1,"row":1,"seat":1}]}`
	rec := doJSON(h.CreateOrder, http.MethodPost, "/v1/orders", body, 7)
	require.Equal(t, http.StatusCreated, rec.Code)
	var order booking.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	rec = doJSON(h.GetOrder, http.MethodGet, "/v1/orders/1", "", 7, "id", "1")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another user sees not-found, not forbidden.
	rec = doJSON(h.GetOrder, http.MethodGet, "/v1/orders/1", "", 8, "id", "1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddTicketEndpoint(t *testing.T) {
	h, _, _, _ := newOrderHandler(t)

	rec := doJSON(h.CreateOrder, http.MethodPost, "/v1/orders",
		`{"tickets":[{"flight_id":1,"row":1,"seat":1}]}`, 7)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(h.AddTicket, http.MethodPost, "/v1/orders/1/tickets",
		`{"flight_id":1,"row":1,"seat":2}`, 7, "id", "1")
	require.Equal(t, http.StatusCreated, rec.Code)

	var ticket booking.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
	assert.Equal(t, uint64(1), ticket.OrderID)

	// Extending a foreign order reports not-found.
	rec = doJSON(h.AddTicket, http.MethodPost, "/v1/orders/1/tickets",
		`{"flight_id":1,"row":1,"seat":3}`, 8, "id", "1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersEndpoint(t *testing.T) {
	h, _, _, _ := newOrderHandler(t)

	for _, seat := range []string{"1", "2"} {
		rec := doJSON(h.CreateOrder, http.MethodPost, "/v1/orders",
			`{"tickets":[{"flight_id":1,"row":1,"seat":`+seat+`}]}`, 7)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(h.ListOrders, http.MethodGet, "/v1/orders", "", 7)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []booking.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)

	// A user with no orders gets an empty list, not an error.
	rec = doJSON(h.ListOrders, http.MethodGet, "/v1/orders", "", 8)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Empty(t, orders)
}

func TestCreateOrderPublishesEvent(t *testing.T) {
	h, _, published, mu := newOrderHandler(t)

	// Publishing runs on its own goroutine after the response.
	var order booking.Order
	rec := doJSON(h.CreateOrder, http.MethodPost, "/v1/orders",
		`{"tickets":[{"flight_id":1,"row":3,"seat":3}]}`, 7)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(*published) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	ev := (*published)[0]
	assert.Equal(t, order.ID, ev.OrderID)
	assert.Equal(t, order.Reference, ev.Reference)
	assert.Equal(t, 1, ev.TicketCount)
}
