package booking

import "errors"

// ErrSeatTaken indicates that the requested (flight, row, seat) is
// already ticketed.  It is returned both by the in-process occupancy
// pre-check and by the store when the tickets table's unique key
// rejects an insert, so callers see one error regardless of which
// layer caught the conflict.  Handlers translate it into HTTP 409.
var ErrSeatTaken = errors.New("seat already taken")

// ErrEmptyOrder is returned when an order is requested with no
// tickets.  The request is rejected before any store interaction.
var ErrEmptyOrder = errors.New("order must contain at least one ticket")

// ErrOverbooked signals a data-integrity violation: a flight has more
// persisted tickets than its airplane has seats.  This cannot happen
// while the unique key and bounds validation hold, so it is surfaced
// loudly instead of being clamped to zero.
var ErrOverbooked = errors.New("flight has more tickets than seats")

// ErrFlightNotFound is returned by stores when a flight ID does not
// resolve to a row.
var ErrFlightNotFound = errors.New("flight not found")

// ErrOrderNotFound is returned by stores when an order does not exist
// or does not belong to the requesting user.
var ErrOrderNotFound = errors.New("order not found")
