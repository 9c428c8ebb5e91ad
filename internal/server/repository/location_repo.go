package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pktikkani/forecastio/internal/models"
)

// LocationRepository handles CRUD for the locations table. Ownership is
// checked through the customer's user_id.
type LocationRepository struct {
	db *sql.DB
}

// NewLocationRepository returns repository instance.
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create inserts a location under one of the user's customers.
func (r *LocationRepository) Create(ctx context.Context, userID int64, location *models.Location) error {
	const query = `
		INSERT INTO locations (customer_id, name, city, timezone)
		SELECT c.id, $2, $3, $4
		FROM customers c
		WHERE c.id = $1 AND c.user_id = $5
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		location.CustomerID, location.Name, location.City, location.Timezone, userID).
		Scan(&location.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListByCustomer returns the customer's locations ordered by id.
func (r *LocationRepository) ListByCustomer(ctx context.Context, userID, customerID int64) ([]models.Location, error) {
	const query = `
		SELECT l.id, l.name, l.city, l.timezone, l.customer_id
		FROM locations l
		JOIN customers c ON c.id = l.customer_id
		WHERE l.customer_id = $1 AND c.user_id = $2
		ORDER BY l.id
	`
	rows, err := r.db.QueryContext(ctx, query, customerID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]models.Location, 0)
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.City, &l.Timezone, &l.CustomerID); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// Get fetches one location owned by the user.
func (r *LocationRepository) Get(ctx context.Context, userID, id int64) (*models.Location, error) {
	const query = `
		SELECT l.id, l.name, l.city, l.timezone, l.customer_id
		FROM locations l
		JOIN customers c ON c.id = l.customer_id
		WHERE l.id = $1 AND c.user_id = $2
	`
	var l models.Location
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&l.ID, &l.Name, &l.City, &l.Timezone, &l.CustomerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Delete removes the location if the user owns it.
func (r *LocationRepository) Delete(ctx context.Context, userID, id int64) error {
	const query = `
		DELETE FROM locations l
		USING customers c
		WHERE l.id = $1 AND c.id = l.customer_id AND c.user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
