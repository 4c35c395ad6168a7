package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Route connects a source airport to a destination airport over a
// distance in kilometres. Source and destination are always distinct;
// handlers enforce that before calling Create or Update. The *Code
// and *Name fields are joined from airports for read responses.
type Route struct {
	ID              uint64 `json:"id"`
	SourceID        uint64 `json:"source_id"`
	DestinationID   uint64 `json:"destination_id"`
	Distance        int    `json:"distance"`
	SourceCode      string `json:"source_code,omitempty"`
	SourceName      string `json:"source_name,omitempty"`
	DestinationCode string `json:"destination_code,omitempty"`
	DestinationName string `json:"destination_name,omitempty"`
}

// ErrRouteNotFound indicates a route lookup yielded no rows.
var ErrRouteNotFound = errors.New("route not found")

// RouteRepo provides CRUD operations for routes.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo constructs a RouteRepo.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// Create inserts a route and populates the generated ID.
func (r *RouteRepo) Create(ctx context.Context, rt *Route) error {
	const q = `INSERT INTO routes (source_airport_id, destination_airport_id, distance) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rt.SourceID, rt.DestinationID, rt.Distance)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// GetByID retrieves a route with both airports joined in.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*Route, error) {
	const q = `SELECT r.id, r.source_airport_id, r.destination_airport_id, r.distance,
	                  src.airport_code, src.name, dst.airport_code, dst.name
	           FROM routes r
	           JOIN airports src ON src.id = r.source_airport_id
	           JOIN airports dst ON dst.id = r.destination_airport_id
	           WHERE r.id = ?`
	var rt Route
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rt.ID, &rt.SourceID, &rt.DestinationID, &rt.Distance,
		&rt.SourceCode, &rt.SourceName, &rt.DestinationCode, &rt.DestinationName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// List returns all routes ordered by source airport name.
func (r *RouteRepo) List(ctx context.Context) ([]Route, error) {
	const q = `SELECT r.id, r.source_airport_id, r.destination_airport_id, r.distance,
	                  src.airport_code, src.name, dst.airport_code, dst.name
	           FROM routes r
	           JOIN airports src ON src.id = r.source_airport_id
	           JOIN airports dst ON dst.id = r.destination_airport_id
	           ORDER BY src.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Route, 0)
	for rows.Next() {
		var rt Route
		if err := rows.Scan(
			&rt.ID, &rt.SourceID, &rt.DestinationID, &rt.Distance,
			&rt.SourceCode, &rt.SourceName, &rt.DestinationCode, &rt.DestinationName,
		); err != nil {
			return nil, err
		}
		result = append(result, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites a route's endpoints and distance.
func (r *RouteRepo) Update(ctx context.Context, rt *Route) error {
	const q = `UPDATE routes
	           SET source_airport_id = ?, destination_airport_id = ?, distance = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, rt.SourceID, rt.DestinationID, rt.Distance, rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, rt.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a route unless flights still reference it.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	const check = `SELECT COUNT(*) FROM flights WHERE route_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, check, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRouteNotFound
	}
	return nil
}
