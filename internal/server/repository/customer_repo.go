package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pktikkani/forecastio/internal/models"
)

// CustomerRepository handles CRUD for the customers table. Every query is
// scoped to the owning user.
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository returns repository instance.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a customer owned by userID.
func (r *CustomerRepository) Create(ctx context.Context, userID int64, customer *models.Customer) error {
	const query = `
		INSERT INTO customers (user_id, name, city)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query, userID, customer.Name, customer.City).
		Scan(&customer.ID)
}

// ListByUser returns the user's customers ordered by id.
func (r *CustomerRepository) ListByUser(ctx context.Context, userID int64) ([]models.Customer, error) {
	const query = `
		SELECT id, name, city
		FROM customers
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]models.Customer, 0)
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.City); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Get fetches one customer owned by userID.
func (r *CustomerRepository) Get(ctx context.Context, userID, id int64) (*models.Customer, error) {
	const query = `
		SELECT id, name, city
		FROM customers
		WHERE id = $1 AND user_id = $2
	`
	var c models.Customer
	if err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&c.ID, &c.Name, &c.City); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Update replaces the customer's mutable fields.
func (r *CustomerRepository) Update(ctx context.Context, userID int64, customer *models.Customer) error {
	const query = `
		UPDATE customers
		SET name = $1, city = $2
		WHERE id = $3 AND user_id = $4
	`
	result, err := r.db.ExecContext(ctx, query, customer.Name, customer.City, customer.ID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete removes the customer and, via cascade, everything under it.
func (r *CustomerRepository) Delete(ctx context.Context, userID, id int64) error {
	const query = `DELETE FROM customers WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
