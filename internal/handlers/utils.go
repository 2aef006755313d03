package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Petroslyros/musical-instrument-shop/internal/services"
	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/go-chi/chi/v5"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

var (
	errInvalidBody  = errors.New("invalid request")
	errNameRequired = errors.New("name is required")
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps service and store errors to HTTP responses.
// notFoundMessage covers store.ErrNotFound; fallbackMessage covers
// anything unrecognized (internal detail is never echoed).
func writeDomainError(w http.ResponseWriter, err error, notFoundMessage, fallbackMessage string) {
	var invalidArg *services.InvalidArgumentError
	var duplicate *services.DuplicateNameError
	var missingInstrument *store.InstrumentNotFoundError
	var noStock *store.InsufficientStockError

	switch {
	case errors.As(err, &invalidArg):
		writeError(w, http.StatusBadRequest, invalidArg.Error())
	case errors.As(err, &duplicate):
		writeError(w, http.StatusConflict, duplicate.Error())
	case errors.As(err, &missingInstrument):
		writeError(w, http.StatusBadRequest, missingInstrument.Error())
	case errors.As(err, &noStock):
		writeError(w, http.StatusConflict, noStock.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMessage)
	case errors.Is(err, services.ErrStorageDisabled):
		writeError(w, http.StatusServiceUnavailable, services.ErrStorageDisabled.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallbackMessage)
	}
}

func parsePagination(r *http.Request) (page, limit, offset int, err error) {
	page = defaultPage
	limit = defaultLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, 0, errors.New("invalid page")
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, 0, errors.New("invalid limit")
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit, nil
}

func parseIDParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
