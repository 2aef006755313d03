package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Petroslyros/musical-instrument-shop/internal/services"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxPhotoBytes = 16 << 20

// InstrumentHandler provides HTTP handlers for instruments.
type InstrumentHandler struct {
	instruments *services.InstrumentService
}

func NewInstrumentHandler(instruments *services.InstrumentService) *InstrumentHandler {
	return &InstrumentHandler{instruments: instruments}
}

// InstrumentRouter registers instrument routes. Reads are public;
// writes and photo upload need an admin identity.
func InstrumentRouter(r chi.Router, instruments *services.InstrumentService, mw *AuthMiddleware) {
	handler := NewInstrumentHandler(instruments)

	r.Get("/", handler.List)
	r.With(mw.Authenticate, mw.RequireAdmin).Post("/", handler.Create)
	r.Route("/{instrumentID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(mw.Authenticate, mw.RequireAdmin).Put("/", handler.Update)
		r.With(mw.Authenticate, mw.RequireAdmin).Delete("/", handler.Delete)
		r.Get("/photo", handler.GetPhoto)
		r.With(mw.Authenticate, mw.RequireAdmin).Post("/photo", handler.UploadPhoto)
	})
}

type InstrumentRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  int             `json:"category_id"`
	BrandID     int             `json:"brand_id"`
}

type InstrumentListResponse struct {
	Items []types.Instrument `json:"items"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Total int                `json:"total"`
}

// List supports ?q= name search plus ?category_id= and ?brand_id=
// filters alongside the usual pagination parameters.
func (h *InstrumentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := types.InstrumentFilter{NameQuery: strings.TrimSpace(r.URL.Query().Get("q"))}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		filter.CategoryID, err = strconv.Atoi(raw)
		if err != nil || filter.CategoryID < 1 {
			writeError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
	}
	if raw := r.URL.Query().Get("brand_id"); raw != "" {
		filter.BrandID, err = strconv.Atoi(raw)
		if err != nil || filter.BrandID < 1 {
			writeError(w, http.StatusBadRequest, "invalid brand_id")
			return
		}
	}

	items, total, err := h.instruments.List(r.Context(), filter, offset, limit)
	if err != nil {
		writeDomainError(w, err, "instrument not found", "failed to list instruments")
		return
	}

	writeJSON(w, http.StatusOK, InstrumentListResponse{Items: items, Page: page, Limit: limit, Total: total})
}

func (h *InstrumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "instrumentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	instrument, err := h.instruments.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "instrument not found", "failed to fetch instrument")
		return
	}
	writeJSON(w, http.StatusOK, instrument)
}

func (h *InstrumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeInstrumentRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	instrument, err := h.instruments.Create(r.Context(), types.Instrument{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
	})
	if err != nil {
		writeDomainError(w, err, "instrument not found", "failed to create instrument")
		return
	}
	writeJSON(w, http.StatusCreated, instrument)
}

func (h *InstrumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "instrumentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := decodeInstrumentRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	instrument, err := h.instruments.Update(r.Context(), types.Instrument{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
	})
	if err != nil {
		writeDomainError(w, err, "instrument not found", "failed to update instrument")
		return
	}
	writeJSON(w, http.StatusOK, instrument)
}

func (h *InstrumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "instrumentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.instruments.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, "instrument not found", "failed to delete instrument")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "instrument deleted"})
}

// UploadPhoto accepts a multipart "photo" field and stores it in the
// configured object store.
func (h *InstrumentHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "instrumentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo field is required")
		return
	}
	defer file.Close()

	key, err := h.instruments.UploadPhoto(r.Context(), id, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		writeDomainError(w, err, "instrument not found", "failed to store photo")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"photo_key": key})
}

// GetPhoto streams the stored photo of an instrument.
func (h *InstrumentHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "instrumentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reader, err := h.instruments.PhotoReader(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "photo not found", "failed to fetch photo")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

func decodeInstrumentRequest(r *http.Request) (InstrumentRequest, error) {
	var req InstrumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return InstrumentRequest{}, errInvalidBody
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return InstrumentRequest{}, errNameRequired
	}
	if !req.Price.IsPositive() {
		return InstrumentRequest{}, errors.New("price must be greater than 0")
	}
	if req.Stock < 0 {
		return InstrumentRequest{}, errors.New("stock cannot be negative")
	}
	if req.CategoryID < 1 {
		return InstrumentRequest{}, errors.New("category_id is required")
	}
	if req.BrandID < 1 {
		return InstrumentRequest{}, errors.New("brand_id is required")
	}
	return req, nil
}
