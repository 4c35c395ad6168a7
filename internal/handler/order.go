package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-booking/internal/booking"
	q "github.com/iliyamo/flight-seat-booking/internal/queue"
	queue_publisher "github.com/iliyamo/flight-seat-booking/internal/service"
)

// OrderLister lists a user's orders. Satisfied by
// *repository.OrderRepo; tests substitute a fake.
type OrderLister interface {
	ListByUser(ctx context.Context, userID uint64) ([]booking.Order, error)
}

// OrderHandler serves the order endpoints on top of the booking
// service.
type OrderHandler struct {
	Svc    *booking.Service
	Orders OrderLister

	// publish sends the order-confirmed event; replaced in tests.
	publish func(ctx context.Context, ev q.OrderConfirmedEvent) error
}

// NewOrderHandler constructs an OrderHandler and panics if a
// dependency is nil.
func NewOrderHandler(svc *booking.Service, orders OrderLister) *OrderHandler {
	if svc == nil || orders == nil {
		panic("nil dependency passed to NewOrderHandler")
	}
	return &OrderHandler{Svc: svc, Orders: orders, publish: queue_publisher.PublishOrderConfirmed}
}

type createOrderReq struct {
	Tickets []ticketReq `json:"tickets"`
}
type ticketReq struct {
	FlightID uint64 `json:"flight_id"`
	Row      int    `json:"row"`
	Seat     int    `json:"seat"`
}

// writeBookingError maps booking errors onto HTTP responses. Seat
// range violations come back as a per-field error list the way form
// validation reports them.
func writeBookingError(c echo.Context, err error) error {
	var invalid booking.InvalidSeatError
	switch {
	case errors.As(err, &invalid):
		fields := echo.Map{}
		for _, v := range invalid {
			fields[v.Field] = v.Error()
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat", "fields": fields})
	case errors.Is(err, booking.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrEmptyOrder):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tickets must not be empty"})
	case errors.Is(err, booking.ErrFlightNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
	case errors.Is(err, booking.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
}

// CreateOrder handles POST /v1/orders: one order holding one ticket
// per requested seat, all booked atomically.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	reqs := make([]booking.TicketRequest, 0, len(req.Tickets))
	for _, t := range req.Tickets {
		reqs = append(reqs, booking.TicketRequest{FlightID: t.FlightID, Row: t.Row, Seat: t.Seat})
	}

	order, err := h.Svc.CreateOrder(c.Request().Context(), uid, reqs)
	if err != nil {
		return writeBookingError(c, err)
	}

	go h.publishConfirmed(order)

	return c.JSON(http.StatusCreated, order)
}

// publishConfirmed emits the order-confirmed event. Broker failures
// are logged and otherwise ignored; the order is already committed.
func (h *OrderHandler) publishConfirmed(order *booking.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	flightSet := make(map[uint64]bool)
	flightIDs := make([]uint64, 0)
	labels := make([]string, 0, len(order.Tickets))
	for _, t := range order.Tickets {
		if !flightSet[t.FlightID] {
			flightSet[t.FlightID] = true
			flightIDs = append(flightIDs, t.FlightID)
		}
		labels = append(labels, fmt.Sprintf("%d:%d-%d", t.FlightID, t.Row, t.Seat))
	}
	ev := q.OrderConfirmedEvent{
		OrderID:     order.ID,
		Reference:   order.Reference,
		UserID:      order.UserID,
		FlightIDs:   flightIDs,
		SeatLabels:  labels,
		TicketCount: len(order.Tickets),
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.publish(ctx, ev); err != nil {
		log.Printf("order %d: publish confirmed event failed: %v", order.ID, err)
	}
}

// ListOrders handles GET /v1/orders, returning the caller's orders
// newest first.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Orders.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list orders failed"})
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /v1/orders/:id. Orders belonging to other
// users are reported as not found.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	order, err := h.Svc.OrderForUser(c.Request().Context(), id, uid)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// AddTicket handles POST /v1/orders/:id/tickets, booking one more
// seat onto an existing order.
func (h *OrderHandler) AddTicket(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ticket, err := h.Svc.AllocateSeat(c.Request().Context(), uid, id, req.FlightID, req.Row, req.Seat)
	if err != nil {
		return writeBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, ticket)
}
