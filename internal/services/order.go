package services

import (
	"context"

	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/Petroslyros/musical-instrument-shop/types"
)

// OrderRepository defines persistence operations for orders. Create
// runs the whole placement (stock reservation included) as one
// transaction; it either commits everything or nothing.
type OrderRepository interface {
	Create(ctx context.Context, userID int, lines []types.OrderLine) (types.Order, error)
	Get(ctx context.Context, id int) (types.Order, error)
	List(ctx context.Context, userID, offset, limit int) ([]types.Order, int, error)
	UpdateStatus(ctx context.Context, id int, status types.OrderStatus) error
	Delete(ctx context.Context, id int) error
}

// EventPublisher emits order lifecycle events to the configured
// broker. Implementations must tolerate being called after commit;
// failures are logged by the implementation, never propagated into the
// request path.
type EventPublisher interface {
	OrderPlaced(ctx context.Context, order types.Order)
	OrderStatusChanged(ctx context.Context, orderID int, status types.OrderStatus)
}

// OrderService orchestrates order placement and lifecycle updates.
type OrderService struct {
	repo   OrderRepository
	users  UserRepository
	events EventPublisher
}

// NewOrderService constructs an OrderService. events may be nil when
// no broker is configured.
func NewOrderService(repo OrderRepository, users UserRepository, events EventPublisher) *OrderService {
	return &OrderService{repo: repo, users: users, events: events}
}

// PlaceOrder validates the request and creates the order atomically.
// Stock is decremented per line inside the repository transaction; on
// any failure nothing is persisted.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int, lines []types.OrderLine) (types.Order, error) {
	if len(lines) == 0 {
		return types.Order{}, invalidArgf("order must contain at least one item")
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return types.Order{}, invalidArgf("quantity must be at least 1 for instrument %d", line.InstrumentID)
		}
	}

	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return types.Order{}, err
	}
	if !exists {
		return types.Order{}, invalidArgf("user with id %d not found", userID)
	}

	order, err := s.repo.Create(ctx, userID, lines)
	if err != nil {
		return types.Order{}, err
	}

	if s.events != nil {
		s.events.OrderPlaced(ctx, order)
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id int) (types.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *OrderService) List(ctx context.Context, offset, limit int) ([]types.Order, int, error) {
	return s.repo.List(ctx, 0, offset, limit)
}

// ListByUser returns the orders of one user, failing with the user
// store's not-found error when the user does not exist.
func (s *OrderService) ListByUser(ctx context.Context, userID, offset, limit int) ([]types.Order, int, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, store.ErrNotFound
	}
	return s.repo.List(ctx, userID, offset, limit)
}

// UpdateStatus overwrites an order's status. Any transition between
// valid statuses is allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status types.OrderStatus) (types.Order, error) {
	if !status.Valid() {
		return types.Order{}, invalidArgf("unknown order status %q", status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return types.Order{}, err
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Order{}, err
	}

	if s.events != nil {
		s.events.OrderStatusChanged(ctx, id, status)
	}
	return order, nil
}

// Delete removes an order and its items. Stock is not restored; a
// cancelled-and-deleted order leaves reserved units sold.
func (s *OrderService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
