package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serviceError maps the service taxonomy onto HTTP statuses. Anything outside
// the taxonomy is a persistence or infrastructure failure: the transaction has
// already rolled back, the caller just gets a 500.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrUserNotFound):
		errorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCartItemNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		errorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		errorJSON(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		errorJSON(w, http.StatusUnauthorized, err.Error())
	default:
		errorJSON(w, http.StatusInternalServerError, "internal server error")
	}
}
