package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/pktikkani/forecastio/internal/server/redisstore"
	"github.com/pktikkani/forecastio/internal/server/service"
)

// NewTrainModelHandler handles GET /mlmodels/train_model/?location_id=&menu_id=.
func NewTrainModelHandler(forecast *service.ForecastService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		locationID, ok := queryID(w, r, "location_id")
		if !ok {
			return
		}
		menuID, ok := queryID(w, r, "menu_id")
		if !ok {
			return
		}

		if err := forecast.Train(r.Context(), uid, locationID, menuID); err != nil {
			if errors.Is(err, service.ErrNoData) {
				writeError(w, http.StatusUnprocessableEntity, "no data for this selection")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to train model")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// NewForecastHandler handles GET /mlmodels/forecast/?location_id=&menu_id=&today=&num_days=.
func NewForecastHandler(forecast *service.ForecastService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userID(w, r); !ok {
			return
		}
		locationID, ok := queryID(w, r, "location_id")
		if !ok {
			return
		}
		menuID, ok := queryID(w, r, "menu_id")
		if !ok {
			return
		}

		today := r.URL.Query().Get("today")
		if today == "" {
			today = time.Now().UTC().Format("2006-01-02")
		}
		days, err := strconv.Atoi(r.URL.Query().Get("num_days"))
		if err != nil || days < 1 {
			writeError(w, http.StatusBadRequest, "num_days is required")
			return
		}

		points, err := forecast.Forecast(r.Context(), locationID, menuID, today, days)
		if err != nil {
			if errors.Is(err, redisstore.ErrModelNotFound) {
				writeError(w, http.StatusNotFound, "no trained model for this selection")
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, points)
	}
}
