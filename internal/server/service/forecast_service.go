package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pktikkani/forecastio/internal/models"
	"github.com/pktikkani/forecastio/internal/server/redisstore"
)

// ErrNoData means the selection has no historical observations to train on.
var ErrNoData = errors.New("forecast: no data for selection")

// DatapointSource provides training data.
type DatapointSource interface {
	ListByMenu(ctx context.Context, userID, menuID int64) ([]models.Datapoint, error)
}

// ModelStore persists trained models.
type ModelStore interface {
	Save(ctx context.Context, model redisstore.WeekdayModel) error
	Get(ctx context.Context, locationID, menuID int64) (*redisstore.WeekdayModel, error)
}

// ForecastService trains and evaluates the per-weekday demand model. The
// model is deliberately simple: the prediction for a future date is the mean
// of all historical observations falling on the same weekday.
type ForecastService struct {
	datapoints DatapointSource
	store      ModelStore
	logger     *zap.Logger
}

// NewForecastService builds ForecastService.
func NewForecastService(datapoints DatapointSource, store ModelStore, logger *zap.Logger) *ForecastService {
	return &ForecastService{datapoints: datapoints, store: store, logger: logger}
}

// Train fits a model for the selection and stores it.
func (s *ForecastService) Train(ctx context.Context, userID, locationID, menuID int64) error {
	points, err := s.datapoints.ListByMenu(ctx, userID, menuID)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return ErrNoData
	}

	var sums [7]float64
	var counts [7]int
	for _, p := range points {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			s.logger.Warn("skipping datapoint with bad date",
				zap.String("date", p.Date), zap.Int64("menu_id", menuID))
			continue
		}
		wd := date.Weekday()
		sums[wd] += p.Value
		counts[wd]++
	}

	model := redisstore.WeekdayModel{LocationID: locationID, MenuID: menuID}
	trainedAny := false
	for wd := 0; wd < 7; wd++ {
		if counts[wd] == 0 {
			continue
		}
		model.Means[wd] = sums[wd] / float64(counts[wd])
		model.Trained[wd] = true
		trainedAny = true
	}
	if !trainedAny {
		return ErrNoData
	}

	if err := s.store.Save(ctx, model); err != nil {
		return fmt.Errorf("forecast: save model: %w", err)
	}
	s.logger.Info("model trained",
		zap.Int64("location_id", locationID),
		zap.Int64("menu_id", menuID),
		zap.Int("datapoints", len(points)))
	return nil
}

// Forecast returns predictions for days consecutive dates starting at today.
// Weekdays the model never saw produce a nil prediction, rendered on the
// wire as the "Cannot predict" sentinel.
func (s *ForecastService) Forecast(ctx context.Context, locationID, menuID int64, today string, days int) ([]models.ForecastPoint, error) {
	start, err := time.Parse("2006-01-02", today)
	if err != nil {
		return nil, fmt.Errorf("forecast: bad today %q: %w", today, err)
	}
	if days < 1 {
		return nil, fmt.Errorf("forecast: num_days must be positive, got %d", days)
	}

	model, err := s.store.Get(ctx, locationID, menuID)
	if err != nil {
		return nil, err
	}

	points := make([]models.ForecastPoint, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		point := models.ForecastPoint{Date: date.Format("2006-01-02")}
		if wd := date.Weekday(); model.Trained[wd] {
			value := model.Means[wd]
			point.PredValue = &value
		}
		points = append(points, point)
	}
	return points, nil
}
