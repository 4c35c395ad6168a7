package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Crew is a crew member that can be assigned to flights through the
// flight_crew join table.
type Crew struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName joins first and last name for display.
func (c Crew) FullName() string { return c.FirstName + " " + c.LastName }

// ErrCrewNotFound indicates a crew lookup yielded no rows.
var ErrCrewNotFound = errors.New("crew member not found")

// CrewRepo provides CRUD operations for crew members and their flight
// assignments.
type CrewRepo struct {
	db *sql.DB
}

// NewCrewRepo constructs a CrewRepo.
func NewCrewRepo(db *sql.DB) *CrewRepo { return &CrewRepo{db: db} }

// Create inserts a crew member and populates the generated ID.
func (r *CrewRepo) Create(ctx context.Context, c *Crew) error {
	const q = `INSERT INTO crew (first_name, last_name) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID retrieves a crew member or ErrCrewNotFound.
func (r *CrewRepo) GetByID(ctx context.Context, id uint64) (*Crew, error) {
	const q = `SELECT id, first_name, last_name FROM crew WHERE id = ?`
	var c Crew
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCrewNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all crew members ordered by last then first name.
func (r *CrewRepo) List(ctx context.Context) ([]Crew, error) {
	const q = `SELECT id, first_name, last_name FROM crew ORDER BY last_name, first_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Crew, 0)
	for rows.Next() {
		var c Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByFlight returns the crew assigned to one flight.
func (r *CrewRepo) ListByFlight(ctx context.Context, flightID uint64) ([]Crew, error) {
	const q = `SELECT c.id, c.first_name, c.last_name
	           FROM crew c
	           JOIN flight_crew fc ON fc.crew_id = c.id
	           WHERE fc.flight_id = ?
	           ORDER BY c.last_name, c.first_name`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Crew, 0)
	for rows.Next() {
		var c Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites a crew member's name.
func (r *CrewRepo) Update(ctx context.Context, c *Crew) error {
	const q = `UPDATE crew SET first_name = ?, last_name = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a crew member; flight_crew rows cascade via FK.
func (r *CrewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM crew WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCrewNotFound
	}
	return nil
}
