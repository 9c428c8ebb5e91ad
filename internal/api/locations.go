package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pktikkani/forecastio/internal/models"
)

// LocationInput is the create payload for locations.
type LocationInput struct {
	Name       string `json:"name"`
	City       string `json:"city"`
	Timezone   string `json:"timezone"`
	CustomerID int64  `json:"customer_id"`
}

// ListLocations fetches the locations of one customer.
func (c *Client) ListLocations(ctx context.Context, token string, customerID int64) ([]models.Location, error) {
	query := url.Values{"customer_id": {strconv.FormatInt(customerID, 10)}}
	var out []models.Location
	if err := c.do(ctx, http.MethodGet, "/locations/", query, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLocation registers a new site under a customer.
func (c *Client) CreateLocation(ctx context.Context, token string, in LocationInput) (*models.Location, error) {
	var out models.Location
	if err := c.do(ctx, http.MethodPost, "/locations/", nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLocation fetches a single location by id.
func (c *Client) GetLocation(ctx context.Context, token string, id int64) (*models.Location, error) {
	var out models.Location
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/locations/%d", id), nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLocation removes a location.
func (c *Client) DeleteLocation(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/locations/%d", id), nil, token, nil, nil)
}
