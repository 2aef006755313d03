package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Petroslyros/musical-instrument-shop/internal/services"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/go-chi/chi/v5"
)

// BrandHandler provides HTTP handlers for brands.
type BrandHandler struct {
	brands *services.BrandService
}

func NewBrandHandler(brands *services.BrandService) *BrandHandler {
	return &BrandHandler{brands: brands}
}

// BrandRouter registers brand routes. Reads are public; writes need an
// admin identity.
func BrandRouter(r chi.Router, brands *services.BrandService, mw *AuthMiddleware) {
	handler := NewBrandHandler(brands)

	r.Get("/", handler.List)
	r.With(mw.Authenticate, mw.RequireAdmin).Post("/", handler.Create)
	r.Route("/{brandID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(mw.Authenticate, mw.RequireAdmin).Put("/", handler.Update)
		r.With(mw.Authenticate, mw.RequireAdmin).Delete("/", handler.Delete)
	})
}

type BrandRequest struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type BrandListResponse struct {
	Items []types.Brand `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
}

func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.brands.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list brands")
		return
	}

	writeJSON(w, http.StatusOK, BrandListResponse{Items: items, Page: page, Limit: limit, Total: total})
}

func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "brandID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	brand, err := h.brands.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "brand not found", "failed to fetch brand")
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBrandRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	brand, err := h.brands.Create(r.Context(), types.Brand{Name: req.Name, Country: req.Country})
	if err != nil {
		writeDomainError(w, err, "brand not found", "failed to create brand")
		return
	}
	writeJSON(w, http.StatusCreated, brand)
}

func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "brandID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := decodeBrandRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	brand, err := h.brands.Update(r.Context(), types.Brand{ID: id, Name: req.Name, Country: req.Country})
	if err != nil {
		writeDomainError(w, err, "brand not found", "failed to update brand")
		return
	}
	writeJSON(w, http.StatusOK, brand)
}

func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "brandID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.brands.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, "brand not found", "failed to delete brand")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "brand deleted"})
}

func decodeBrandRequest(r *http.Request) (BrandRequest, error) {
	var req BrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BrandRequest{}, errInvalidBody
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return BrandRequest{}, errNameRequired
	}
	return req, nil
}
