package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pktikkani/forecastio/internal/models"
	"github.com/pktikkani/forecastio/internal/server/repository"
	"github.com/pktikkani/forecastio/internal/server/service"
)

type uploadRequest struct {
	Content    string `json:"content"`
	CustomerID int64  `json:"customer_id"`
	LocationID int64  `json:"location_id"`
	MenuID     int64  `json:"menu_id"`
}

type uploadResponse struct {
	Inserted int    `json:"inserted"`
	Detail   string `json:"detail,omitempty"`
}

// NewCSVUploadHandler handles POST /datapoints/csv_upload/.
func NewCSVUploadHandler(ingest *service.IngestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.MenuID <= 0 || req.Content == "" {
			writeError(w, http.StatusBadRequest, "menu_id and content are required")
			return
		}

		inserted, err := ingest.UploadCSV(r.Context(), uid, req.MenuID, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrBadCSV):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, repository.ErrNotFound):
				writeError(w, http.StatusNotFound, "menu item not found")
			default:
				writeError(w, http.StatusInternalServerError, "failed to store datapoints")
			}
			return
		}
		writeJSON(w, http.StatusCreated, uploadResponse{Inserted: inserted, Detail: "ok"})
	}
}

// NewBulkAddHandler handles POST /datapoints/bulk_add/.
func NewBulkAddHandler(ingest *service.IngestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var points []models.Datapoint
		if err := json.NewDecoder(r.Body).Decode(&points); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(points) == 0 {
			writeError(w, http.StatusBadRequest, "no datapoints supplied")
			return
		}

		inserted, err := ingest.AddPoints(r.Context(), uid, points)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrBadCSV):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, repository.ErrNotFound):
				writeError(w, http.StatusNotFound, "menu item not found")
			default:
				writeError(w, http.StatusInternalServerError, "failed to store datapoints")
			}
			return
		}
		writeJSON(w, http.StatusCreated, uploadResponse{Inserted: inserted})
	}
}
