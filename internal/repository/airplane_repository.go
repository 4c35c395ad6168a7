package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Airplane represents a row in the `airplanes` table. Rows and
// SeatsInRow define the physical seat grid; both are positive.
// TypeName is joined from airplane_types for read responses.
type Airplane struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	Rows           int    `json:"rows"`
	SeatsInRow     int    `json:"seats_in_row"`
	AirplaneTypeID uint64 `json:"airplane_type_id"`
	TypeName       string `json:"airplane_type"`
}

// Capacity returns the total seat count of the airplane.
func (a Airplane) Capacity() int { return a.Rows * a.SeatsInRow }

// ErrAirplaneNotFound indicates an airplane lookup yielded no rows.
var ErrAirplaneNotFound = errors.New("airplane not found")

// AirplaneRepo provides CRUD operations for airplanes.
type AirplaneRepo struct {
	db *sql.DB
}

// NewAirplaneRepo constructs an AirplaneRepo.
func NewAirplaneRepo(db *sql.DB) *AirplaneRepo { return &AirplaneRepo{db: db} }

// Create inserts an airplane and populates the generated ID. The
// referenced airplane type must already exist.
func (r *AirplaneRepo) Create(ctx context.Context, a *Airplane) error {
	const q = `INSERT INTO airplanes (name, seat_rows, seats_in_row, airplane_type_id) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Rows, a.SeatsInRow, a.AirplaneTypeID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID retrieves an airplane with its type name joined in.
func (r *AirplaneRepo) GetByID(ctx context.Context, id uint64) (*Airplane, error) {
	const q = `SELECT a.id, a.name, a.seat_rows, a.seats_in_row, a.airplane_type_id, t.name
	           FROM airplanes a
	           JOIN airplane_types t ON t.id = a.airplane_type_id
	           WHERE a.id = ?`
	var a Airplane
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.TypeName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAirplaneNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns all airplanes with type names, ordered by name.
func (r *AirplaneRepo) List(ctx context.Context) ([]Airplane, error) {
	const q = `SELECT a.id, a.name, a.seat_rows, a.seats_in_row, a.airplane_type_id, t.name
	           FROM airplanes a
	           JOIN airplane_types t ON t.id = a.airplane_type_id
	           ORDER BY a.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Airplane, 0)
	for rows.Next() {
		var a Airplane
		if err := rows.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.TypeName); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SoldSeatBounds returns the highest row and seat number among all
// tickets on flights flown by this airplane. Both are zero when
// nothing is sold. Used to refuse layout changes that would strand
// already-sold seats outside the grid.
func (r *AirplaneRepo) SoldSeatBounds(ctx context.Context, airplaneID uint64) (maxRow, maxSeat int, err error) {
	const q = `SELECT COALESCE(MAX(t.seat_row), 0), COALESCE(MAX(t.seat_num), 0)
	           FROM tickets t
	           JOIN flights f ON f.id = t.flight_id
	           WHERE f.airplane_id = ?`
	err = r.db.QueryRowContext(ctx, q, airplaneID).Scan(&maxRow, &maxSeat)
	return maxRow, maxSeat, err
}

// Update rewrites an airplane's mutable fields. Callers must have
// checked the new layout against SoldSeatBounds first; this method
// only guards row existence.
func (r *AirplaneRepo) Update(ctx context.Context, a *Airplane) error {
	const q = `UPDATE airplanes
	           SET name = ?, seat_rows = ?, seats_in_row = ?, airplane_type_id = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Rows, a.SeatsInRow, a.AirplaneTypeID, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an airplane unless flights still reference it.
func (r *AirplaneRepo) Delete(ctx context.Context, id uint64) error {
	const check = `SELECT COUNT(*) FROM flights WHERE airplane_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, check, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM airplanes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirplaneNotFound
	}
	return nil
}
