package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/yourstruly-priyanshu/rentify/internal/catalog"
	"github.com/yourstruly-priyanshu/rentify/internal/repository"
	"github.com/yourstruly-priyanshu/rentify/internal/service"
	"github.com/yourstruly-priyanshu/rentify/internal/store"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// handleDomainError maps engine errors to HTTP statuses.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAuthRequired):
		respondError(w, http.StatusUnauthorized, "auth_required", err.Error())
	case errors.Is(err, store.ErrInvalidDateRange):
		respondError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
	case errors.Is(err, store.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, store.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, service.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", err.Error())
	case errors.Is(err, service.ErrOrderCreation), errors.Is(err, service.ErrRemoteSync):
		respondError(w, http.StatusBadGateway, "upstream_failure", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
