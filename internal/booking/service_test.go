package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements FlightStore and OrderStore in memory with the
// same contract the MySQL repositories provide: a unique (flight, row,
// seat) constraint and all-or-nothing order creation. A mutex guards
// every operation so the concurrency tests exercise real interleaving.
type fakeStore struct {
	mu       sync.Mutex
	seatings map[uint64]Seating
	tickets  []Ticket
	orders   map[uint64]*Order
	nextID   uint64

	failCreate error // forced error for CreateWithTickets
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seatings: make(map[uint64]Seating),
		orders:   make(map[uint64]*Order),
		nextID:   1,
	}
}

func (f *fakeStore) Seating(_ context.Context, flightID uint64) (Seating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.seatings[flightID]
	if !ok {
		return Seating{}, ErrFlightNotFound
	}
	return s, nil
}

func (f *fakeStore) OccupiedSeats(_ context.Context, flightID uint64) ([]Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	places := make([]Place, 0)
	for _, t := range f.tickets {
		if t.FlightID == flightID {
			places = append(places, Place{Row: t.Row, Seat: t.Seat})
		}
	}
	return places, nil
}

// takenLocked reports whether a (flight, row, seat) already has a
// ticket. Callers must hold mu.
func (f *fakeStore) takenLocked(flightID uint64, row, seat int) bool {
	for _, t := range f.tickets {
		if t.FlightID == flightID && t.Row == row && t.Seat == seat {
			return true
		}
	}
	return false
}

func (f *fakeStore) CreateWithTickets(_ context.Context, userID uint64, reference string, reqs []TicketRequest) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	// Reject the whole batch on any conflict, like the SQL transaction
	// does when the unique key fires.
	seen := make(map[Place]uint64)
	for _, r := range reqs {
		p := Place{Row: r.Row, Seat: r.Seat}
		if f.takenLocked(r.FlightID, r.Row, r.Seat) || seen[p] == r.FlightID {
			return nil, ErrSeatTaken
		}
		seen[p] = r.FlightID
	}
	order := &Order{ID: f.nextID, Reference: reference, UserID: userID, Tickets: make([]Ticket, 0, len(reqs))}
	f.nextID++
	for _, r := range reqs {
		t := Ticket{ID: f.nextID, FlightID: r.FlightID, OrderID: order.ID, Row: r.Row, Seat: r.Seat}
		f.nextID++
		f.tickets = append(f.tickets, t)
		order.Tickets = append(order.Tickets, t)
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeStore) InsertTicket(_ context.Context, orderID, flightID uint64, row, seat int) (*Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.takenLocked(flightID, row, seat) {
		return nil, ErrSeatTaken
	}
	t := Ticket{ID: f.nextID, FlightID: flightID, OrderID: orderID, Row: row, Seat: seat}
	f.nextID++
	f.tickets = append(f.tickets, t)
	if o, ok := f.orders[orderID]; ok {
		o.Tickets = append(o.Tickets, t)
	}
	return &t, nil
}

func (f *fakeStore) GetForUser(_ context.Context, orderID, userID uint64) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.seatings[1] = Seating{Rows: 10, SeatsInRow: 4}
	store.seatings[2] = Seating{Rows: 2, SeatsInRow: 2}
	return NewService(store, store), store
}

func TestCreateOrderBooksAllSeats(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 7, []TicketRequest{
		{FlightID: 1, Row: 1, Seat: 1},
		{FlightID: 1, Row: 1, Seat: 2},
		{FlightID: 2, Row: 2, Seat: 2},
	})
	require.NoError(t, err)
	require.Len(t, order.Tickets, 3)
	assert.Equal(t, uint64(7), order.UserID)
	assert.NotEmpty(t, order.Reference)

	occupied, err := svc.OccupiedSeats(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, occupied, 2)

	free, err := svc.AvailableSeats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, store.seatings[1].Capacity()-2, free)
}

func TestCreateOrderEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), 7, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.CreateOrder(context.Background(), 7, []TicketRequest{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateOrderInvalidSeat(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), 7, []TicketRequest{
		{FlightID: 1, Row: 1, Seat: 1},
		{FlightID: 1, Row: 99, Seat: 1},
	})
	var invalid InvalidSeatError
	require.True(t, errors.As(err, &invalid))
	require.Len(t, invalid, 1)
	assert.Equal(t, "row", invalid[0].Field)

	// Nothing was persisted for the valid seat either.
	assert.Empty(t, store.tickets)
}

func TestCreateOrderSeatAlreadySold(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, 1, []TicketRequest{{FlightID: 1, Row: 3, Seat: 3}})
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, 2, []TicketRequest{
		{FlightID: 1, Row: 5, Seat: 1},
		{FlightID: 1, Row: 3, Seat: 3},
	})
	assert.ErrorIs(t, err, ErrSeatTaken)

	// The losing order booked nothing at all.
	occupied, err := svc.OccupiedSeats(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, occupied, 1)
	assert.Len(t, store.orders, 1)
}

func TestCreateOrderDuplicateWithinBatch(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), 7, []TicketRequest{
		{FlightID: 1, Row: 2, Seat: 2},
		{FlightID: 1, Row: 2, Seat: 2},
	})
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Empty(t, store.tickets)
}

func TestCreateOrderSamePlaceDifferentFlights(t *testing.T) {
	svc, _ := newTestService(t)

	// (2, 2) exists on both flights; occupancy is per flight.
	order, err := svc.CreateOrder(context.Background(), 7, []TicketRequest{
		{FlightID: 1, Row: 2, Seat: 2},
		{FlightID: 2, Row: 2, Seat: 2},
	})
	require.NoError(t, err)
	assert.Len(t, order.Tickets, 2)
}

func TestCreateOrderUnknownFlight(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), 7, []TicketRequest{
		{FlightID: 42, Row: 1, Seat: 1},
	})
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestAllocateSeat(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 7, []TicketRequest{{FlightID: 1, Row: 1, Seat: 1}})
	require.NoError(t, err)

	ticket, err := svc.AllocateSeat(ctx, 7, order.ID, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, order.ID, ticket.OrderID)
	assert.Equal(t, 1, ticket.Row)
	assert.Equal(t, 2, ticket.Seat)

	// Same place again conflicts.
	_, err = svc.AllocateSeat(ctx, 7, order.ID, 1, 1, 2)
	assert.ErrorIs(t, err, ErrSeatTaken)

	// Out-of-range place is rejected before any store write.
	_, err = svc.AllocateSeat(ctx, 7, order.ID, 1, 11, 1)
	var invalid InvalidSeatError
	assert.True(t, errors.As(err, &invalid))
}

func TestAllocateSeatForeignOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 7, []TicketRequest{{FlightID: 1, Row: 1, Seat: 1}})
	require.NoError(t, err)

	// Another user cannot extend someone else's order, and the error
	// does not reveal that the order exists.
	_, err = svc.AllocateSeat(ctx, 8, order.ID, 1, 1, 2)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAvailableSeatsOverbooked(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// Corrupt the store directly: more tickets than flight 2 has seats.
	for row := 1; row <= 2; row++ {
		for seat := 1; seat <= 2; seat++ {
			store.tickets = append(store.tickets, Ticket{FlightID: 2, Row: row, Seat: seat})
		}
	}
	store.tickets = append(store.tickets, Ticket{FlightID: 2, Row: 1, Seat: 1})

	_, err := svc.AvailableSeats(ctx, 2)
	assert.ErrorIs(t, err, ErrOverbooked)
}

func TestOrderForUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, 7, []TicketRequest{{FlightID: 1, Row: 1, Seat: 1}})
	require.NoError(t, err)

	got, err := svc.OrderForUser(ctx, order.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.OrderForUser(ctx, order.ID, 8)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.OrderForUser(ctx, 999, 7)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConcurrentOrdersOneSeat(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const contenders = 16
	var wg sync.WaitGroup
	results := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(user uint64) {
			defer wg.Done()
			_, err := svc.CreateOrder(ctx, user, []TicketRequest{{FlightID: 1, Row: 4, Seat: 4}})
			results <- err
		}(uint64(i + 1))
	}
	wg.Wait()
	close(results)

	won, lost := 0, 0
	for err := range results {
		if err == nil {
			won++
		} else {
			require.ErrorIs(t, err, ErrSeatTaken)
			lost++
		}
	}
	assert.Equal(t, 1, won, "exactly one contender may win the seat")
	assert.Equal(t, contenders-1, lost)

	occupied, err := svc.OccupiedSeats(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, occupied, 1)
}

func TestNewServicePanicsOnNil(t *testing.T) {
	store := newFakeStore()
	assert.Panics(t, func() { NewService(nil, store) })
	assert.Panics(t, func() { NewService(store, nil) })
}
