package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pktikkani/forecastio/internal/models"
)

// CustomerInput is the create/update payload for customers.
type CustomerInput struct {
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// ListCustomers fetches the outlets belonging to the current session.
func (c *Client) ListCustomers(ctx context.Context, token string) ([]models.Customer, error) {
	var out []models.Customer
	if err := c.do(ctx, http.MethodGet, "/customers/", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCustomer registers a new outlet; the backend echoes the created
// record with its id.
func (c *Client) CreateCustomer(ctx context.Context, token string, in CustomerInput) (*models.Customer, error) {
	var out models.Customer
	if err := c.do(ctx, http.MethodPost, "/customers/", nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCustomer fetches a single outlet by id.
func (c *Client) GetCustomer(ctx context.Context, token string, id int64) (*models.Customer, error) {
	var out models.Customer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d/", id), nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCustomer replaces an outlet's fields.
func (c *Client) UpdateCustomer(ctx context.Context, token string, id int64, in CustomerInput) (*models.Customer, error) {
	var out models.Customer
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d/", id), nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCustomer removes an outlet. Its locations keep existing; the backend
// is the source of truth for referential integrity.
func (c *Client) DeleteCustomer(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d/", id), nil, token, nil, nil)
}
