package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pktikkani/forecastio/internal/models"
	"github.com/pktikkani/forecastio/internal/server/repository"
)

type customerRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

// NewListCustomersHandler handles GET /customers/.
func NewListCustomersHandler(repo *repository.CustomerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		customers, err := repo.ListByUser(r.Context(), uid)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list customers")
			return
		}
		writeJSON(w, http.StatusOK, customers)
	}
}

// NewCreateCustomerHandler handles POST /customers/.
func NewCreateCustomerHandler(repo *repository.CustomerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var req customerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		customer := models.Customer{Name: req.Name, City: req.City}
		if err := repo.Create(r.Context(), uid, &customer); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create customer")
			return
		}
		writeJSON(w, http.StatusCreated, customer)
	}
}

// NewGetCustomerHandler handles GET /customers/{id}/.
func NewGetCustomerHandler(repo *repository.CustomerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		customer, err := repo.Get(r.Context(), uid, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "customer not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load customer")
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

// NewUpdateCustomerHandler handles PUT /customers/{id}/.
func NewUpdateCustomerHandler(repo *repository.CustomerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req customerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		customer := models.Customer{ID: id, Name: req.Name, City: req.City}
		if err := repo.Update(r.Context(), uid, &customer); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "customer not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to update customer")
			return
		}
		writeJSON(w, http.StatusOK, customer)
	}
}

// NewDeleteCustomerHandler handles DELETE /customers/{id}/.
func NewDeleteCustomerHandler(repo *repository.CustomerRepository) http.HandlerFunc {
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
				writeError(w, http.StatusNotFound, "customer not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to delete customer")
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
