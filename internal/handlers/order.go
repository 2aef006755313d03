package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Petroslyros/musical-instrument-shop/internal/services"
	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/go-chi/chi/v5"
)

// OrderHandler provides HTTP handlers for orders.
type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// OrderRouter registers order routes. Every route needs an identity;
// listing all orders, status updates and deletion are admin only.
func OrderRouter(r chi.Router, orders *services.OrderService, mw *AuthMiddleware) {
	handler := NewOrderHandler(orders)

	r.Use(mw.Authenticate, mw.RequireIdentity)
	r.Post("/", handler.Place)
	r.With(mw.RequireAdmin).Get("/", handler.List)
	r.Get("/user/{userID}", handler.ListByUser)
	r.Route("/{orderID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.With(mw.RequireAdmin).Put("/", handler.UpdateStatus)
		r.With(mw.RequireAdmin).Delete("/", handler.Delete)
	})
}

type PlaceOrderRequest struct {
	UserID int               `json:"user_id"`
	Items  []types.OrderLine `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status types.OrderStatus `json:"status"`
}

type OrderListResponse struct {
	Items []types.Order `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
}

// Place creates an order for the caller. An absent user_id defaults to
// the caller's own account; placing for someone else needs ADMIN.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFromContext(r.Context())

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.UserID == 0 {
		req.UserID = caller.ID
	}
	if req.UserID != caller.ID && caller.Role != types.RoleAdmin {
		writeError(w, http.StatusForbidden, "cannot place orders for another user")
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), req.UserID, req.Items)
	if err != nil {
		writeDomainError(w, err, "order not found", "failed to place order")
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.orders.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, OrderListResponse{Items: items, Page: page, Limit: limit, Total: total})
}

// ListByUser returns one user's orders. Customers may only read their
// own history.
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFromContext(r.Context())

	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if userID != caller.ID && caller.Role != types.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.orders.ListByUser(r.Context(), userID, offset, limit)
	if err != nil {
		writeDomainError(w, err, "user not found", "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, OrderListResponse{Items: items, Page: page, Limit: limit, Total: total})
}

// Get returns a single order. Customers may only read their own.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFromContext(r.Context())

	id, err := parseIDParam(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "order not found", "failed to fetch order")
		return
	}
	if order.UserID != caller.ID && caller.Role != types.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, err, "order not found", "failed to update order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, "order not found", "failed to delete order")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
