package repository

import (
	"context"
	"database/sql"
	"errors"
)

// AirplaneType is a manufacturer model grouping for airplanes, e.g.
// "Boeing 737". It corresponds to a row in `airplane_types`.
type AirplaneType struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ErrAirplaneTypeNotFound indicates the type lookup yielded no rows.
var ErrAirplaneTypeNotFound = errors.New("airplane type not found")

// AirplaneTypeRepo provides CRUD operations for airplane types.
type AirplaneTypeRepo struct {
	db *sql.DB
}

// NewAirplaneTypeRepo constructs an AirplaneTypeRepo.
func NewAirplaneTypeRepo(db *sql.DB) *AirplaneTypeRepo { return &AirplaneTypeRepo{db: db} }

// Create inserts a type and populates the generated ID.
func (r *AirplaneTypeRepo) Create(ctx context.Context, t *AirplaneType) error {
	const q = `INSERT INTO airplane_types (name) VALUES (?)`
	res, err := r.db.ExecContext(ctx, q, t.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID retrieves a type by ID or ErrAirplaneTypeNotFound.
func (r *AirplaneTypeRepo) GetByID(ctx context.Context, id uint64) (*AirplaneType, error) {
	const q = `SELECT id, name FROM airplane_types WHERE id = ?`
	var t AirplaneType
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAirplaneTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all types ordered by name descending.
func (r *AirplaneTypeRepo) List(ctx context.Context) ([]AirplaneType, error) {
	const q = `SELECT id, name FROM airplane_types ORDER BY name DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]AirplaneType, 0)
	for rows.Next() {
		var t AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update renames a type. Returns ErrAirplaneTypeNotFound when the ID
// does not exist.
func (r *AirplaneTypeRepo) Update(ctx context.Context, t *AirplaneType) error {
	const q = `UPDATE airplane_types SET name = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a type unless airplanes still reference it.
func (r *AirplaneTypeRepo) Delete(ctx context.Context, id uint64) error {
	const check = `SELECT COUNT(*) FROM airplanes WHERE airplane_type_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, check, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM airplane_types WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAirplaneTypeNotFound
	}
	return nil
}
