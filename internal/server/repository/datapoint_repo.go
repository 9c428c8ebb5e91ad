package repository

import (
	"context"
	"database/sql"

	"github.com/pktikkani/forecastio/internal/models"
)

// DatapointRepository stores historical sales observations.
type DatapointRepository struct {
	db *sql.DB
}

// NewDatapointRepository returns repository instance.
func NewDatapointRepository(db *sql.DB) *DatapointRepository {
	return &DatapointRepository{db: db}
}

// InsertBatch stores points for a menu item the user owns. The ownership
// check runs once, not per point.
func (r *DatapointRepository) InsertBatch(ctx context.Context, userID, menuID int64, points []models.Datapoint) (int, error) {
	const ownsQuery = `
		SELECT 1
		FROM menus m
		JOIN locations l ON l.id = m.location_id
		JOIN customers c ON c.id = l.customer_id
		WHERE m.id = $1 AND c.user_id = $2
	`
	var one int
	if err := r.db.QueryRowContext(ctx, ownsQuery, menuID, userID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	const insertQuery = `INSERT INTO datapoints (menu_id, date, value) VALUES ($1, $2, $3)`
	inserted := 0
	for _, p := range points {
		if _, err := tx.ExecContext(ctx, insertQuery, menuID, p.Date, p.Value); err != nil {
			return 0, err
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListByMenu returns the menu item's observations ordered by date.
func (r *DatapointRepository) ListByMenu(ctx context.Context, userID, menuID int64) ([]models.Datapoint, error) {
	const query = `
		SELECT to_char(d.date, 'YYYY-MM-DD'), d.value
		FROM datapoints d
		JOIN menus m ON m.id = d.menu_id
		JOIN locations l ON l.id = m.location_id
		JOIN customers c ON c.id = l.customer_id
		WHERE d.menu_id = $1 AND c.user_id = $2
		ORDER BY d.date
	`
	rows, err := r.db.QueryContext(ctx, query, menuID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]models.Datapoint, 0)
	for rows.Next() {
		var p models.Datapoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, err
		}
		p.MenuID = menuID
		points = append(points, p)
	}
	return points, rows.Err()
}
