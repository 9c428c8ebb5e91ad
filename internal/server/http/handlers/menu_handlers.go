package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pktikkani/forecastio/internal/models"
	"github.com/pktikkani/forecastio/internal/server/repository"
)

// NewListMenusHandler handles GET /menus/?location_id=.
func NewListMenusHandler(repo *repository.MenuRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		locationID, ok := queryID(w, r, "location_id")
		if !ok {
			return
		}
		items, err := repo.ListByLocation(r.Context(), uid, locationID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list menu items")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// NewCreateMenuHandler handles POST /menus/?location_id=.
func NewCreateMenuHandler(repo *repository.MenuRepository) http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		locationID, ok := queryID(w, r, "location_id")
		if !ok {
			return
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		item := models.MenuItem{Name: req.Name, LocationID: locationID}
		if err := repo.Create(r.Context(), uid, &item); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "location not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to create menu item")
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

// NewDeleteMenuHandler handles DELETE /menus/{id}.
func NewDeleteMenuHandler(repo *repository.MenuRepository) http.HandlerFunc {
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
				writeError(w, http.StatusNotFound, "menu item not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete menu item")
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
