package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/pktikkani/forecastio/internal/models"
)

// UploadInput describes one historical-sales CSV upload. Content is the raw
// file; the client owns the base64 encoding the backend expects.
type UploadInput struct {
	Content    io.Reader
	CustomerID int64
	LocationID int64
	MenuID     int64
}

// UploadResult is the backend's csv_upload response.
type UploadResult struct {
	Inserted int    `json:"inserted"`
	Detail   string `json:"detail,omitempty"`
}

type uploadPayload struct {
	Content    string `json:"content"`
	CustomerID int64  `json:"customer_id"`
	LocationID int64  `json:"location_id"`
	MenuID     int64  `json:"menu_id"`
}

// BulkUpload posts a CSV file as base64 text wrapped in JSON. The selection
// is validated before any file or network I/O happens.
func (c *Client) BulkUpload(ctx context.Context, token string, in UploadInput) (*UploadResult, error) {
	switch {
	case in.CustomerID == 0:
		return nil, &ValidationError{Field: "customer_id"}
	case in.LocationID == 0:
		return nil, &ValidationError{Field: "location_id"}
	case in.MenuID == 0:
		return nil, &ValidationError{Field: "menu_id"}
	case in.Content == nil:
		return nil, &ValidationError{Field: "content"}
	}

	data, err := io.ReadAll(in.Content)
	if err != nil {
		return nil, fmt.Errorf("api: read upload content: %w", err)
	}

	payload := uploadPayload{
		Content:    base64.StdEncoding.EncodeToString(data),
		CustomerID: in.CustomerID,
		LocationID: in.LocationID,
		MenuID:     in.MenuID,
	}

	var out UploadResult
	if err := c.do(ctx, http.MethodPost, "/datapoints/csv_upload/", nil, token, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddDatapoints posts individual observations without the CSV wrapping.
func (c *Client) AddDatapoints(ctx context.Context, token string, points []models.Datapoint) error {
	return c.do(ctx, http.MethodPost, "/datapoints/bulk_add/", nil, token, points, nil)
}
