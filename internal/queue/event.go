// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderConfirmedEvent is published when an order and its tickets have
// been committed. It carries enough detail for downstream consumers to
// log or notify without querying the primary database.
type OrderConfirmedEvent struct {
	OrderID     uint64   `json:"order_id"`
	Reference   string   `json:"reference"`
	UserID      uint64   `json:"user_id"`
	FlightIDs   []uint64 `json:"flight_ids"`
	SeatLabels  []string `json:"seats"`
	TicketCount int      `json:"ticket_count"`
	ConfirmedAt string   `json:"confirmed_at"`
}
