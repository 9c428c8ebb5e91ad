package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pktikkani/forecastio/internal/models"
	"github.com/pktikkani/forecastio/internal/server/repository"
)

type locationRequest struct {
	Name       string `json:"name"`
	City       string `json:"city"`
	Timezone   string `json:"timezone"`
	CustomerID int64  `json:"customer_id"`
}

// NewListLocationsHandler handles GET /locations/?customer_id=.
func NewListLocationsHandler(repo *repository.LocationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		customerID, ok := queryID(w, r, "customer_id")
		if !ok {
			return
		}
		locations, err := repo.ListByCustomer(r.Context(), uid, customerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list locations")
			return
		}
		writeJSON(w, http.StatusOK, locations)
	}
}

// NewCreateLocationHandler handles POST /locations/.
func NewCreateLocationHandler(repo *repository.LocationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var req locationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || req.CustomerID <= 0 {
			writeError(w, http.StatusBadRequest, "name and customer_id are required")
			return
		}

		location := models.Location{
			Name:       req.Name,
			City:       req.City,
			Timezone:   req.Timezone,
			CustomerID: req.CustomerID,
		}
		if err := repo.Create(r.Context(), uid, &location); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "customer not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to create location")
			return
		}
		writeJSON(w, http.StatusCreated, location)
	}
}

// NewGetLocationHandler handles GET /locations/{id}.
func NewGetLocationHandler(repo *repository.LocationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		location, err := repo.Get(r.Context(), uid, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "location not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load location")
			return
		}
		writeJSON(w, http.StatusOK, location)
	}
}

// NewDeleteLocationHandler handles DELETE /locations/{id}.
func NewDeleteLocationHandler(repo *repository.LocationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := repo.Delete(r.Context(), uid, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "location not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete location")
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
