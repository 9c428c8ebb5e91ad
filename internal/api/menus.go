package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pktikkani/forecastio/internal/models"
)

// MenuItemInput is the create payload for menu items.
type MenuItemInput struct {
	Name string `json:"name"`
}

// ListMenuItems fetches the menu of one location. The returned list is only
// valid for that location; callers must refetch after a location change.
func (c *Client) ListMenuItems(ctx context.Context, token string, locationID int64) ([]models.MenuItem, error) {
	query := url.Values{"location_id": {strconv.FormatInt(locationID, 10)}}
	var out []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/menus/", query, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMenuItem adds a sellable item to a location's menu.
func (c *Client) CreateMenuItem(ctx context.Context, token string, locationID int64, in MenuItemInput) (*models.MenuItem, error) {
	query := url.Values{"location_id": {strconv.FormatInt(locationID, 10)}}
	var out models.MenuItem
	if err := c.do(ctx, http.MethodPost, "/menus/", query, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMenuItem removes a menu item.
func (c *Client) DeleteMenuItem(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/menus/%d", id), nil, token, nil, nil)
}
