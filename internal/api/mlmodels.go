package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/pktikkani/forecastio/internal/models"
)

// TrainResult reports whether training succeeded. Success=false means "no
// data for this selection" regardless of the underlying cause; the caller
// shows a message instead of crashing.
type TrainResult struct {
	Success bool
}

// ForecastResult carries the forecast series or a structured failure.
type ForecastResult struct {
	Success bool
	Points  []models.ForecastPoint
}

// TrainModel asks the backend to train a model for the selection. Failures
// are logged and folded into the success flag; this wrapper never returns an
// error to its caller.
func (c *Client) TrainModel(ctx context.Context, token string, locationID, menuID int64) TrainResult {
	query := url.Values{
		"location_id": {strconv.FormatInt(locationID, 10)},
		"menu_id":     {strconv.FormatInt(menuID, 10)},
	}
	if err := c.do(ctx, http.MethodGet, "/mlmodels/train_model/", query, token, nil, nil); err != nil {
		c.logger.Warn("train model request failed",
			zap.Int64("location_id", locationID),
			zap.Int64("menu_id", menuID),
			zap.Error(err))
		return TrainResult{}
	}
	return TrainResult{Success: true}
}

// Forecast requests predictions for the given number of days starting today.
// Today is computed client-side as the current date in YYYY-MM-DD.
func (c *Client) Forecast(ctx context.Context, token string, locationID, menuID int64, days int) ForecastResult {
	query := url.Values{
		"location_id": {strconv.FormatInt(locationID, 10)},
		"menu_id":     {strconv.FormatInt(menuID, 10)},
		"today":       {c.now().Format("2006-01-02")},
		"num_days":    {strconv.Itoa(days)},
	}

	var points []models.ForecastPoint
	if err := c.do(ctx, http.MethodGet, "/mlmodels/forecast/", query, token, nil, &points); err != nil {
		c.logger.Warn("forecast request failed",
			zap.Int64("location_id", locationID),
			zap.Int64("menu_id", menuID),
			zap.Error(err))
		return ForecastResult{}
	}
	return ForecastResult{Success: true, Points: points}
}
