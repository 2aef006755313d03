package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Petroslyros/musical-instrument-shop/internal/services"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/go-chi/chi/v5"
)

// CategoryHandler provides HTTP handlers for categories.
type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryRouter registers category routes. Reads are public; writes
// need an admin identity.
func CategoryRouter(r chi.Router, categories *services.CategoryService, mw *AuthMiddleware) {
	handler := NewCategoryHandler(categories)

	r.Get("/", handler.List)
	r.With(mw.Authenticate, mw.RequireAdmin).Post("/", handler.Create)
	r.Route("/{categoryID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(mw.Authenticate, mw.RequireAdmin).Put("/", handler.Update)
		r.With(mw.Authenticate, mw.RequireAdmin).Delete("/", handler.Delete)
	})
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type CategoryListResponse struct {
	Items []types.Category `json:"items"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int              `json:"total"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.categories.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	writeJSON(w, http.StatusOK, CategoryListResponse{Items: items, Page: page, Limit: limit, Total: total})
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "category not found", "failed to fetch category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCategoryRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categories.Create(r.Context(), types.Category{Name: req.Name})
	if err != nil {
		writeDomainError(w, err, "category not found", "failed to create category")
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := decodeCategoryRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.categories.Update(r.Context(), types.Category{ID: id, Name: req.Name})
	if err != nil {
		writeDomainError(w, err, "category not found", "failed to update category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, "category not found", "failed to delete category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

func decodeCategoryRequest(r *http.Request) (CategoryRequest, error) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return CategoryRequest{}, errInvalidBody
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return CategoryRequest{}, errNameRequired
	}
	return req, nil
}
