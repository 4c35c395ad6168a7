package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TicketRequest is one seat a client wants to buy: a flight plus a
// (row, seat) coordinate on that flight's airplane.
type TicketRequest struct {
	FlightID uint64 `json:"flight_id"`
	Row      int    `json:"row"`
	Seat     int    `json:"seat"`
}

// Ticket is a persisted seat assignment.  For any flight the
// (Row, Seat) pair is unique across all tickets; the tickets table
// enforces this with UNIQUE KEY (flight_id, row, seat).
type Ticket struct {
	ID       uint64 `json:"id"`
	FlightID uint64 `json:"flight_id"`
	OrderID  uint64 `json:"order_id"`
	Row      int    `json:"row"`
	Seat     int    `json:"seat"`
}

// Order groups the tickets purchased together by one user.  An order
// is only ever persisted whole: either all of its tickets commit or
// none do.  Reference is an opaque code handed to clients so they can
// quote the order without exposing the numeric key.
type Order struct {
	ID        uint64    `json:"id"`
	Reference string    `json:"reference"`
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Tickets   []Ticket  `json:"tickets"`
}

// FlightStore resolves a flight to the seating layout of its airplane.
type FlightStore interface {
	Seating(ctx context.Context, flightID uint64) (Seating, error)
}

// OrderStore persists orders and tickets.  Implementations must back
// InsertTicket and CreateWithTickets with a durable unique constraint
// on (flight_id, row, seat) and return ErrSeatTaken when it fires;
// CreateWithTickets must write the order row and every ticket row in
// one transaction.
type OrderStore interface {
	OccupiedSeats(ctx context.Context, flightID uint64) ([]Place, error)
	CreateWithTickets(ctx context.Context, userID uint64, reference string, reqs []TicketRequest) (*Order, error)
	InsertTicket(ctx context.Context, orderID, flightID uint64, row, seat int) (*Ticket, error)
	GetForUser(ctx context.Context, orderID, userID uint64) (*Order, error)
}

// Service wires the seat validator and occupancy reads into the two
// write operations of the booking core: single-ticket allocation and
// atomic order creation.  It never retries on conflict; a taken seat
// is a business-level answer for the caller, not a transient fault.
type Service struct {
	flights FlightStore
	orders  OrderStore
}

// NewService constructs a Service.  Both stores are required.
func NewService(flights FlightStore, orders OrderStore) *Service {
	if flights == nil || orders == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{flights: flights, orders: orders}
}

// OccupiedSeats returns the set of already-ticketed places on a
// flight.  The result is a point-in-time snapshot; concurrent writers
// may change it immediately after, which is why writes re-check
// against the storage constraint.
func (s *Service) OccupiedSeats(ctx context.Context, flightID uint64) ([]Place, error) {
	if _, err := s.flights.Seating(ctx, flightID); err != nil {
		return nil, err
	}
	return s.orders.OccupiedSeats(ctx, flightID)
}

// AvailableSeats reports capacity minus sold tickets for a flight.  A
// negative result means the stored data violates the uniqueness or
// bounds invariants and is reported as ErrOverbooked rather than
// clamped.
func (s *Service) AvailableSeats(ctx context.Context, flightID uint64) (int, error) {
	seating, err := s.flights.Seating(ctx, flightID)
	if err != nil {
		return 0, err
	}
	occupied, err := s.orders.OccupiedSeats(ctx, flightID)
	if err != nil {
		return 0, err
	}
	free := seating.Capacity() - len(occupied)
	if free < 0 {
		return 0, fmt.Errorf("flight %d: %d tickets for %d seats: %w",
			flightID, len(occupied), seating.Capacity(), ErrOverbooked)
	}
	return free, nil
}

// AllocateSeat books one seat on a flight into an existing order owned
// by userID.  Validation and the occupancy pre-check run first as a
// fast path; the durable unique key on tickets is what actually
// decides races, and its violation surfaces as ErrSeatTaken exactly
// like the pre-check.
func (s *Service) AllocateSeat(ctx context.Context, userID, orderID, flightID uint64, row, seat int) (*Ticket, error) {
	if _, err := s.orders.GetForUser(ctx, orderID, userID); err != nil {
		return nil, err
	}
	seating, err := s.flights.Seating(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if err := ValidateSeat(row, seat, seating); err != nil {
		return nil, err
	}
	occupied, err := s.orders.OccupiedSeats(ctx, flightID)
	if err != nil {
		return nil, err
	}
	for _, p := range occupied {
		if p.Row == row && p.Seat == seat {
			return nil, fmt.Errorf("flight %d seat (%d, %d): %w", flightID, row, seat, ErrSeatTaken)
		}
	}
	return s.orders.InsertTicket(ctx, orderID, flightID, row, seat)
}

// CreateOrder creates an order owning every requested ticket, or
// nothing at all.  The owner identity is an explicit argument bound
// from the authenticated caller by the request layer; it is never read
// from the request payload.  Any failure (invalid seat, seat taken,
// duplicate within the batch, constraint violation at commit) aborts
// the whole order.
func (s *Service) CreateOrder(ctx context.Context, userID uint64, reqs []TicketRequest) (*Order, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyOrder
	}

	seatings := make(map[uint64]Seating)
	taken := make(map[uint64]map[Place]bool)
	for _, r := range reqs {
		seating, ok := seatings[r.FlightID]
		if !ok {
			var err error
			seating, err = s.flights.Seating(ctx, r.FlightID)
			if err != nil {
				return nil, err
			}
			seatings[r.FlightID] = seating

			occupied, err := s.orders.OccupiedSeats(ctx, r.FlightID)
			if err != nil {
				return nil, err
			}
			set := make(map[Place]bool, len(occupied))
			for _, p := range occupied {
				set[p] = true
			}
			taken[r.FlightID] = set
		}
		if err := ValidateSeat(r.Row, r.Seat, seating); err != nil {
			return nil, err
		}
		// Marking the place as taken here also rejects duplicates
		// within the batch itself.
		place := Place{Row: r.Row, Seat: r.Seat}
		if taken[r.FlightID][place] {
			return nil, fmt.Errorf("flight %d seat (%d, %d): %w", r.FlightID, r.Row, r.Seat, ErrSeatTaken)
		}
		taken[r.FlightID][place] = true
	}

	return s.orders.CreateWithTickets(ctx, userID, uuid.NewString(), reqs)
}

// OrderForUser returns one of the user's orders with its tickets.
func (s *Service) OrderForUser(ctx context.Context, orderID, userID uint64) (*Order, error) {
	return s.orders.GetForUser(ctx, orderID, userID)
}
