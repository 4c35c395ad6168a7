package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/flight-seat-booking/internal/booking"
)

// Flight represents a row in the `flights` table: one scheduled
// departure of an airplane along a route. Arrival is always strictly
// after departure; handlers validate that before writes reach here.
type Flight struct {
	ID            uint64    `json:"id"`
	RouteID       uint64    `json:"route_id"`
	AirplaneID    uint64    `json:"airplane_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

// FlightInfo is the list-view projection of a flight: route and
// airplane rendered as display strings plus seat counts, including the
// number of tickets still available.
type FlightInfo struct {
	ID               uint64    `json:"id"`
	Route            string    `json:"route"`
	Airplane         string    `json:"airplane"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	AirplaneSeats    int       `json:"airplane_num_seats"`
	TicketsAvailable int       `json:"tickets_available"`
}

// FlightDetail is the retrieve-view projection: full route and
// airplane records, the assigned crew, and the places already sold.
type FlightDetail struct {
	ID            uint64          `json:"id"`
	DepartureTime time.Time       `json:"departure_time"`
	ArrivalTime   time.Time       `json:"arrival_time"`
	Route         Route           `json:"route"`
	Airplane      Airplane        `json:"airplane"`
	Crew          []Crew          `json:"crew"`
	TakenPlaces   []booking.Place `json:"taken_places"`
}

// ErrFlightNotFound indicates a flight lookup yielded no rows.
var ErrFlightNotFound = errors.New("flight not found")

// FlightRepo provides CRUD operations for flights, crew assignment,
// and the seating lookup consumed by the booking core.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo constructs a FlightRepo.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// Create inserts a flight and populates the generated ID.
func (r *FlightRepo) Create(ctx context.Context, f *Flight) error {
	const q = `INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.RouteID, f.AirplaneID, f.DepartureTime.UTC(), f.ArrivalTime.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID retrieves the raw flight row or ErrFlightNotFound.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*Flight, error) {
	const q = `SELECT id, route_id, airplane_id, departure_time, arrival_time FROM flights WHERE id = ?`
	var f Flight
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&f.ID, &f.RouteID, &f.AirplaneID, &f.DepartureTime, &f.ArrivalTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Seating implements booking.FlightStore: it resolves a flight to the
// seat layout of its assigned airplane.
func (r *FlightRepo) Seating(ctx context.Context, flightID uint64) (booking.Seating, error) {
	const q = `SELECT a.seat_rows, a.seats_in_row
	           FROM flights f
	           JOIN airplanes a ON a.id = f.airplane_id
	           WHERE f.id = ?`
	var s booking.Seating
	err := r.db.QueryRowContext(ctx, q, flightID).Scan(&s.Rows, &s.SeatsInRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.Seating{}, booking.ErrFlightNotFound
		}
		return booking.Seating{}, err
	}
	return s, nil
}

// List returns all flights with display strings for route and
// airplane and the count of tickets still available, computed as
// capacity minus sold tickets in a single query.
func (r *FlightRepo) List(ctx context.Context) ([]FlightInfo, error) {
	const q = `SELECT f.id,
	                  CONCAT(src.name, ' (', src.airport_code, ') - ', dst.name, ' (', dst.airport_code, ')'),
	                  a.name,
	                  f.departure_time, f.arrival_time,
	                  a.seat_rows * a.seats_in_row,
	                  a.seat_rows * a.seats_in_row - COUNT(t.id)
	           FROM flights f
	           JOIN routes r ON r.id = f.route_id
	           JOIN airports src ON src.id = r.source_airport_id
	           JOIN airports dst ON dst.id = r.destination_airport_id
	           JOIN airplanes a ON a.id = f.airplane_id
	           LEFT JOIN tickets t ON t.flight_id = f.id
	           GROUP BY f.id, src.name, src.airport_code, dst.name, dst.airport_code,
	                    a.name, f.departure_time, f.arrival_time, a.seat_rows, a.seats_in_row
	           ORDER BY f.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]FlightInfo, 0)
	for rows.Next() {
		var fi FlightInfo
		if err := rows.Scan(
			&fi.ID, &fi.Route, &fi.Airplane, &fi.DepartureTime, &fi.ArrivalTime,
			&fi.AirplaneSeats, &fi.TicketsAvailable,
		); err != nil {
			return nil, err
		}
		result = append(result, fi)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDetail assembles the retrieve view: route, airplane, crew, and
// the taken places on the flight.
func (r *FlightRepo) GetDetail(ctx context.Context, id uint64) (*FlightDetail, error) {
	const q = `SELECT f.id, f.departure_time, f.arrival_time,
	                  r.id, r.source_airport_id, r.destination_airport_id, r.distance,
	                  src.airport_code, src.name, dst.airport_code, dst.name,
	                  a.id, a.name, a.seat_rows, a.seats_in_row, a.airplane_type_id, t.name
	           FROM flights f
	           JOIN routes r ON r.id = f.route_id
	           JOIN airports src ON src.id = r.source_airport_id
	           JOIN airports dst ON dst.id = r.destination_airport_id
	           JOIN airplanes a ON a.id = f.airplane_id
	           JOIN airplane_types t ON t.id = a.airplane_type_id
	           WHERE f.id = ?`
	var det FlightDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.DepartureTime, &det.ArrivalTime,
		&det.Route.ID, &det.Route.SourceID, &det.Route.DestinationID, &det.Route.Distance,
		&det.Route.SourceCode, &det.Route.SourceName, &det.Route.DestinationCode, &det.Route.DestinationName,
		&det.Airplane.ID, &det.Airplane.Name, &det.Airplane.Rows, &det.Airplane.SeatsInRow,
		&det.Airplane.AirplaneTypeID, &det.Airplane.TypeName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}

	det.Crew = make([]Crew, 0)
	const crewQ = `SELECT c.id, c.first_name, c.last_name
	               FROM crew c
	               JOIN flight_crew fc ON fc.crew_id = c.id
	               WHERE fc.flight_id = ?
	               ORDER BY c.last_name, c.first_name`
	crows, err := r.db.QueryContext(ctx, crewQ, id)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var c Crew
		if err := crows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		det.Crew = append(det.Crew, c)
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	det.TakenPlaces = make([]booking.Place, 0)
	const seatQ = `SELECT seat_row, seat_num FROM tickets WHERE flight_id = ? ORDER BY seat_row, seat_num`
	srows, err := r.db.QueryContext(ctx, seatQ, id)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var p booking.Place
		if err := srows.Scan(&p.Row, &p.Seat); err != nil {
			return nil, err
		}
		det.TakenPlaces = append(det.TakenPlaces, p)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// Update rewrites a flight's route, airplane and schedule.
func (r *FlightRepo) Update(ctx context.Context, f *Flight) error {
	const q = `UPDATE flights
	           SET route_id = ?, airplane_id = ?, departure_time = ?, arrival_time = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, f.RouteID, f.AirplaneID, f.DepartureTime.UTC(), f.ArrivalTime.UTC(), f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, f.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a flight unless tickets have been sold for it.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	const check = `SELECT COUNT(*) FROM tickets WHERE flight_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, check, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// SetCrew replaces the crew assignment of a flight with the given crew
// IDs. The delete and bulk insert run in one transaction so a
// concurrent reader never observes a half-assigned flight.
func (r *FlightRepo) SetCrew(ctx context.Context, flightID uint64, crewIDs []uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flight_crew WHERE flight_id = ?`, flightID); err != nil {
		return err
	}
	if len(crewIDs) > 0 {
		query := `INSERT INTO flight_crew (flight_id, crew_id) VALUES `
		args := make([]interface{}, 0, len(crewIDs)*2)
		for i, cid := range crewIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, flightID, cid)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("assign crew: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
