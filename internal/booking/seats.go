// Package booking implements the seat-allocation core of the flight
// reservation system: validating seats against an airplane's physical
// layout, computing per-flight occupancy, and creating orders whose
// tickets are persisted atomically.  The package holds no SQL of its
// own; persistence is abstracted behind the FlightStore and OrderStore
// interfaces implemented by the repository layer.
package booking

import "fmt"

// Seating describes the physical seat layout of an airplane.  Every
// flight inherits the seating of its assigned airplane, so a seat that
// is valid on one flight may be out of range on another.
type Seating struct {
	Rows       int `json:"rows"`         // number of seat rows
	SeatsInRow int `json:"seats_in_row"` // seats per row
}

// Capacity returns the total number of seats (rows × seats per row).
func (s Seating) Capacity() int {
	return s.Rows * s.SeatsInRow
}

// Place identifies a single physical seat on a flight by its row and
// position within the row.  Both coordinates are 1-based.
type Place struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

// SeatRangeError reports that one coordinate of a requested seat lies
// outside the airplane's layout.  Field names the offending coordinate
// ("row" or "seat") and Bound carries the inclusive upper limit so the
// presentation layer can format a per-field message.
type SeatRangeError struct {
	Field string `json:"field"`
	Bound int    `json:"bound"`
}

func (e SeatRangeError) Error() string {
	return fmt.Sprintf("%s number must be in available range: (1, %d)", e.Field, e.Bound)
}

// InvalidSeatError aggregates every range violation found for a single
// requested seat.  Both coordinates are checked independently, so a
// request that is wrong in both dimensions reports two entries rather
// than short-circuiting on the first.
type InvalidSeatError []SeatRangeError

func (e InvalidSeatError) Error() string {
	if len(e) == 0 {
		return "invalid seat"
	}
	msg := e[0].Error()
	for _, f := range e[1:] {
		msg += "; " + f.Error()
	}
	return msg
}

// ValidateSeat checks a candidate (row, seat) pair against a seating
// layout.  It returns nil when 1 <= row <= Rows and
// 1 <= seat <= SeatsInRow, and an InvalidSeatError listing every
// violated coordinate otherwise.  The function is pure: it reads
// nothing but its arguments and has no side effects.
func ValidateSeat(row, seat int, seating Seating) error {
	var fields InvalidSeatError
	if row < 1 || row > seating.Rows {
		fields = append(fields, SeatRangeError{Field: "row", Bound: seating.Rows})
	}
	if seat < 1 || seat > seating.SeatsInRow {
		fields = append(fields, SeatRangeError{Field: "seat", Bound: seating.SeatsInRow})
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}
