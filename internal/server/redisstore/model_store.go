package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrModelNotFound means no model has been trained for the selection.
var ErrModelNotFound = errors.New("redisstore: model not found")

// WeekdayModel is a trained forecast model: one mean sales value per weekday,
// indexed Sunday=0 the way time.Weekday does. Trained[i] reports whether the
// training data covered that weekday at all.
type WeekdayModel struct {
	LocationID int64      `json:"location_id"`
	MenuID     int64      `json:"menu_id"`
	Means      [7]float64 `json:"means"`
	Trained    [7]bool    `json:"trained"`
}

// ModelStore keeps trained models in redis.
type ModelStore struct {
	client *redis.Client
}

// NewModelStore returns redis-backed store.
func NewModelStore(client *redis.Client) *ModelStore {
	return &ModelStore{client: client}
}

func (s *ModelStore) key(locationID, menuID int64) string {
	return fmt.Sprintf("mlmodels:model:%d:%d", locationID, menuID)
}

// Save stores the trained model, replacing any previous one.
func (s *ModelStore) Save(ctx context.Context, model WeekdayModel) error {
	data, err := json.Marshal(model)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(model.LocationID, model.MenuID), data, 0).Err()
}

// Get returns the trained model for a selection.
func (s *ModelStore) Get(ctx context.Context, locationID, menuID int64) (*WeekdayModel, error) {
	result, err := s.client.Get(ctx, s.key(locationID, menuID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}
	var model WeekdayModel
	if err := json.Unmarshal([]byte(result), &model); err != nil {
		return nil, err
	}
	return &model, nil
}
