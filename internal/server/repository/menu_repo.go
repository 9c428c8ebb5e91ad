package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pktikkani/forecastio/internal/models"
)

// MenuRepository handles CRUD for the menus table. Ownership is checked
// through location -> customer -> user.
type MenuRepository struct {
	db *sql.DB
}

// NewMenuRepository returns repository instance.
func NewMenuRepository(db *sql.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// Create inserts a menu item under one of the user's locations.
func (r *MenuRepository) Create(ctx context.Context, userID int64, item *models.MenuItem) error {
	const query = `
		INSERT INTO menus (location_id, name)
		SELECT l.id, $2
		FROM locations l
		JOIN customers c ON c.id = l.customer_id
		WHERE l.id = $1 AND c.user_id = $3
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, item.LocationID, item.Name, userID).
		Scan(&item.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListByLocation returns the location's menu items ordered by id.
func (r *MenuRepository) ListByLocation(ctx context.Context, userID, locationID int64) ([]models.MenuItem, error) {
	const query = `
		SELECT m.id, m.name, m.location_id
		FROM menus m
		JOIN locations l ON l.id = m.location_id
		JOIN customers c ON c.id = l.customer_id
		WHERE m.location_id = $1 AND c.user_id = $2
		ORDER BY m.id
	`
	rows, err := r.db.QueryContext(ctx, query, locationID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.MenuItem, 0)
	for rows.Next() {
		var m models.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.LocationID); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Get fetches one menu item owned by the user.
func (r *MenuRepository) Get(ctx context.Context, userID, id int64) (*models.MenuItem, error) {
	const query = `
		SELECT m.id, m.name, m.location_id
		FROM menus m
		JOIN locations l ON l.id = m.location_id
		JOIN customers c ON c.id = l.customer_id
		WHERE m.id = $1 AND c.user_id = $2
	`
	var m models.MenuItem
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&m.ID, &m.Name, &m.LocationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes the menu item if the user owns it.
func (r *MenuRepository) Delete(ctx context.Context, userID, id int64) error {
	const query = `
		DELETE FROM menus m
		USING locations l, customers c
		WHERE m.id = $1 AND l.id = m.location_id AND c.id = l.customer_id AND c.user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
