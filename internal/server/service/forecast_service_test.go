package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/pktikkani/forecastio/internal/models"
	"github.com/pktikkani/forecastio/internal/server/redisstore"
)

type fakeDatapoints struct {
	points []models.Datapoint
	err    error
}

func (f *fakeDatapoints) ListByMenu(ctx context.Context, userID, menuID int64) ([]models.Datapoint, error) {
	return f.points, f.err
}

type fakeModelStore struct {
	saved  *redisstore.WeekdayModel
	getErr error
}

func (f *fakeModelStore) Save(ctx context.Context, model redisstore.WeekdayModel) error {
	f.saved = &model
	return nil
}

func (f *fakeModelStore) Get(ctx context.Context, locationID, menuID int64) (*redisstore.WeekdayModel, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.saved == nil {
		return nil, redisstore.ErrModelNotFound
	}
	return f.saved, nil
}

func TestTrainComputesPerWeekdayMeans(t *testing.T) {
	// 2026-08-03 and 2026-08-10 are Mondays, 2026-08-04 is a Tuesday
	source := &fakeDatapoints{points: []models.Datapoint{
		{Date: "2026-08-03", Value: 10},
		{Date: "2026-08-10", Value: 20},
		{Date: "2026-08-04", Value: 7},
	}}
	store := &fakeModelStore{}
	svc := NewForecastService(source, store, zap.NewNop())

	if err := svc.Train(context.Background(), 1, 2, 3); err != nil {
		t.Fatalf("Train returned error: %v", err)
	}
	if store.saved == nil {
		t.Fatal("model was not saved")
	}

	monday, tuesday := 1, 2
	if !store.saved.Trained[monday] || store.saved.Means[monday] != 15 {
		t.Fatalf("monday mean = %v (trained=%v), want 15", store.saved.Means[monday], store.saved.Trained[monday])
	}
	if !store.saved.Trained[tuesday] || store.saved.Means[tuesday] != 7 {
		t.Fatalf("tuesday mean = %v, want 7", store.saved.Means[tuesday])
	}
	if store.saved.Trained[0] {
		t.Fatal("sunday was never observed, must stay untrained")
	}
}

func TestTrainWithoutDataReturnsErrNoData(t *testing.T) {
	svc := NewForecastService(&fakeDatapoints{}, &fakeModelStore{}, zap.NewNop())
	if err := svc.Train(context.Background(), 1, 2, 3); !errors.Is(err, ErrNoData) {
		t.Fatalf("Train error = %v, want ErrNoData", err)
	}
}

func TestForecastMarksUnseenWeekdaysUnpredictable(t *testing.T) {
	store := &fakeModelStore{saved: &redisstore.WeekdayModel{
		LocationID: 2,
		MenuID:     3,
		Means:      [7]float64{0, 15, 0, 0, 0, 0, 0},
		Trained:    [7]bool{false, true, false, false, false, false, false},
	}}
	svc := NewForecastService(&fakeDatapoints{}, store, zap.NewNop())

	// 2026-08-31 is a Monday
	points, err := svc.Forecast(context.Background(), 2, 3, "2026-08-31", 3)
	if err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	if points[0].PredValue == nil || *points[0].PredValue != 15 {
		t.Fatalf("monday prediction = %v, want 15", points[0].PredValue)
	}
	if points[1].PredValue != nil {
		t.Fatalf("tuesday prediction = %v, want nil", *points[1].PredValue)
	}
	if points[0].Date != "2026-08-31" || points[2].Date != "2026-09-02" {
		t.Fatalf("dates = %s..%s, want consecutive from today", points[0].Date, points[2].Date)
	}
}

func TestForecastWithoutModelFails(t *testing.T) {
	svc := NewForecastService(&fakeDatapoints{}, &fakeModelStore{}, zap.NewNop())
	_, err := svc.Forecast(context.Background(), 2, 3, "2026-08-31", 3)
	if !errors.Is(err, redisstore.ErrModelNotFound) {
		t.Fatalf("Forecast error = %v, want ErrModelNotFound", err)
	}
}

func TestForecastRejectsBadInput(t *testing.T) {
	store := &fakeModelStore{saved: &redisstore.WeekdayModel{}}
	svc := NewForecastService(&fakeDatapoints{}, store, zap.NewNop())

	if _, err := svc.Forecast(context.Background(), 2, 3, "31-08-2026", 3); err == nil {
		t.Fatal("expected error for malformed today date")
	}
	if _, err := svc.Forecast(context.Background(), 2, 3, "2026-08-31", 0); err == nil {
		t.Fatal("expected error for non-positive num_days")
	}
}
