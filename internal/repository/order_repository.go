package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/flight-seat-booking/internal/booking"
)

// OrderRepo persists orders and tickets and implements
// booking.OrderStore. The tickets table carries
// UNIQUE KEY uq_flight_seat (flight_id, seat_row, seat_num); that
// constraint, not the application pre-check, is what guarantees a seat
// is sold at most once when two transactions race for it. A losing
// insert fails with MySQL error 1062, the enclosing transaction rolls
// back, and the conflict is reported as booking.ErrSeatTaken.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// OccupiedSeats returns every sold place on a flight ordered by row
// then seat. The snapshot may be stale by the time the caller acts on
// it; writes re-check via the unique key.
func (r *OrderRepo) OccupiedSeats(ctx context.Context, flightID uint64) ([]booking.Place, error) {
	const q = `SELECT seat_row, seat_num FROM tickets WHERE flight_id = ? ORDER BY seat_row, seat_num`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]booking.Place, 0)
	for rows.Next() {
		var p booking.Place
		if err := rows.Scan(&p.Row, &p.Seat); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateWithTickets inserts an order row and all of its ticket rows in
// a single transaction. Either everything commits or the transaction
// rolls back and nothing is visible; a duplicate-seat rejection from
// the unique key aborts the whole order with booking.ErrSeatTaken.
func (r *OrderRepo) CreateWithTickets(ctx context.Context, userID uint64, reference string, reqs []booking.TicketRequest) (*booking.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO orders (reference, user_id) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, ins, reference, userID)
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO tickets (flight_id, order_id, seat_row, seat_num) VALUES `
	args := make([]interface{}, 0, len(reqs)*4)
	for i, t := range reqs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, t.FlightID, orderID, t.Row, t.Seat)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return nil, booking.ErrSeatTaken
		}
		return nil, err
	}

	order := &booking.Order{ID: uint64(orderID), Reference: reference, UserID: userID}
	const sel = `SELECT created_at FROM orders WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, orderID).Scan(&order.CreatedAt); err != nil {
		return nil, err
	}
	order.Tickets, err = ticketsByOrderTx(ctx, tx, order.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if isDuplicateKey(err) {
			return nil, booking.ErrSeatTaken
		}
		return nil, err
	}
	committed = true
	return order, nil
}

// InsertTicket adds one ticket to an existing order. The unique key
// on tickets decides concurrent attempts at the same place.
func (r *OrderRepo) InsertTicket(ctx context.Context, orderID, flightID uint64, row, seat int) (*booking.Ticket, error) {
	const q = `INSERT INTO tickets (flight_id, order_id, seat_row, seat_num) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, flightID, orderID, row, seat)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("flight %d seat (%d, %d): %w", flightID, row, seat, booking.ErrSeatTaken)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &booking.Ticket{
		ID:       uint64(id),
		FlightID: flightID,
		OrderID:  orderID,
		Row:      row,
		Seat:     seat,
	}, nil
}

// GetForUser returns one order with its tickets, restricted to the
// owning user. A foreign or missing order is booking.ErrOrderNotFound
// either way, so callers cannot probe for other users' order IDs.
func (r *OrderRepo) GetForUser(ctx context.Context, orderID, userID uint64) (*booking.Order, error) {
	const q = `SELECT id, reference, user_id, created_at FROM orders WHERE id = ? AND user_id = ?`
	var o booking.Order
	err := r.db.QueryRowContext(ctx, q, orderID, userID).
		Scan(&o.ID, &o.Reference, &o.UserID, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrOrderNotFound
		}
		return nil, err
	}
	o.Tickets, err = r.ticketsByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByUser returns all orders of a user, newest first, each with its
// tickets populated. Tickets for every order are fetched in one query
// and grouped in memory.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]booking.Order, error) {
	const q = `SELECT id, reference, user_id, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]booking.Order, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var o booking.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.UserID, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Tickets = make([]booking.Ticket, 0)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]interface{}, 0, len(orders))
	placeholders := ""
	for i, o := range orders {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		ids = append(ids, o.ID)
	}
	ticketQ := `SELECT id, flight_id, order_id, seat_row, seat_num
	            FROM tickets
	            WHERE order_id IN (` + placeholders + `)
	            ORDER BY order_id, seat_row, seat_num`
	trows, err := r.db.QueryContext(ctx, ticketQ, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t booking.Ticket
		if err := trows.Scan(&t.ID, &t.FlightID, &t.OrderID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		if idx, ok := index[t.OrderID]; ok {
			orders[idx].Tickets = append(orders[idx].Tickets, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// ticketsByOrder fetches an order's tickets ordered by row then seat.
func (r *OrderRepo) ticketsByOrder(ctx context.Context, orderID uint64) ([]booking.Ticket, error) {
	const q = `SELECT id, flight_id, order_id, seat_row, seat_num FROM tickets WHERE order_id = ? ORDER BY seat_row, seat_num`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ticketsByOrderTx is ticketsByOrder within an open transaction, used
// to return the fully-populated order from CreateWithTickets before
// commit.
func ticketsByOrderTx(ctx context.Context, tx *sql.Tx, orderID uint64) ([]booking.Ticket, error) {
	const q = `SELECT id, flight_id, order_id, seat_row, seat_num FROM tickets WHERE order_id = ? ORDER BY seat_row, seat_num`
	rows, err := tx.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows *sql.Rows) ([]booking.Ticket, error) {
	tickets := make([]booking.Ticket, 0)
	for rows.Next() {
		var t booking.Ticket
		if err := rows.Scan(&t.ID, &t.FlightID, &t.OrderID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}
