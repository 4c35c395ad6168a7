package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Airport represents a row in the `airports` table. AirportCode is the
// short IATA-style code and must be unique across all airports.
type Airport struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	AirportCode    string    `json:"airport_code"`
	ClosestBigCity string    `json:"closest_big_city"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// ErrAirportNotFound indicates that an airport lookup yielded no rows.
var ErrAirportNotFound = errors.New("airport not found")

// ErrAirportCodeExists indicates the airport_code unique key rejected
// an insert or update.
var ErrAirportCodeExists = errors.New("airport code already exists")

// AirportRepo provides CRUD operations for airports.
type AirportRepo struct {
	db *sql.DB
}

// NewAirportRepo constructs an AirportRepo with the given DB handle.
func NewAirportRepo(db *sql.DB) *AirportRepo { return &AirportRepo{db: db} }

// Create inserts an airport and populates the generated ID.
func (r *AirportRepo) Create(ctx context.Context, a *Airport) error {
	const q = `INSERT INTO airports (name, airport_code, closest_big_city) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.AirportCode, a.ClosestBigCity)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAirportCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID retrieves an airport by its ID. Returns ErrAirportNotFound
// when no row matches.
func (r *AirportRepo) GetByID(ctx context.Context, id uint64) (*Airport, error) {
	const q = `SELECT id, name, airport_code, closest_big_city, created_at, updated_at
	           FROM airports WHERE id = ?`
	var a Airport
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&a.ID, &a.Name, &a.AirportCode, &a.ClosestBigCity, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAirportNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns all airports ordered by name descending.
func (r *AirportRepo) List(ctx context.Context) ([]Airport, error) {
	const q = `SELECT id, name, airport_code, closest_big_city, created_at, updated_at
	           FROM airports ORDER BY name DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Airport, 0)
	for rows.Next() {
		var a Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.AirportCode, &a.ClosestBigCity, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites all mutable fields of an airport. Returns
// ErrAirportNotFound when the ID does not exist and
// ErrAirportCodeExists when the new code collides with another row.
func (r *AirportRepo) Update(ctx context.Context, a *Airport) error {
	const q = `UPDATE airports
	           SET name = ?, airport_code = ?, closest_big_city = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.AirportCode, a.ClosestBigCity, a.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAirportCodeExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean an identical update; confirm existence.
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an airport. Routes referencing it block the delete
// with ErrConflict rather than cascading into flights and tickets.
func (r *AirportRepo) Delete(ctx context.Context, id uint64) error {
	const check = `SELECT COUNT(*) FROM routes WHERE source_airport_id = ? OR destination_airport_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, check, id, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	const q = `DELETE FROM airports WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirportNotFound
	}
	return nil
}
