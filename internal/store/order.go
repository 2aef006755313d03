package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Petroslyros/musical-instrument-shop/types"
	"github.com/shopspring/decimal"
)

// OrderRepository handles persistence for orders and their items,
// including the stock reservation that runs inside order placement.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create places an order in a single transaction. For each requested
// line it locks the instrument row (SELECT ... FOR UPDATE), checks and
// decrements stock, and snapshots the current price. If any line fails
// the transaction rolls back: no stock decrement and no order row
// survive a partial failure. The row lock serializes concurrent
// reservations against the same instrument, so two placements cannot
// both pass the stock check and drive stock negative.
func (r *OrderRepository) Create(ctx context.Context, userID int, lines []types.OrderLine) (types.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	order := types.Order{
		UserID:      userID,
		OrderDate:   time.Now(),
		Status:      types.OrderStatusPending,
		TotalAmount: decimal.Zero,
	}

	const insertOrder = `
		INSERT INTO orders (user_id, order_date, total_amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := tx.QueryRowContext(ctx, insertOrder, order.UserID, order.OrderDate, order.TotalAmount, order.Status).Scan(&order.ID); err != nil {
		return types.Order{}, err
	}

	const lockInstrument = `
		SELECT name, price, stock
		FROM instruments
		WHERE id = $1
		FOR UPDATE`
	const decrementStock = `
		UPDATE instruments
		SET stock = stock - $1, updated_at = $2
		WHERE id = $3`
	const insertItem = `
		INSERT INTO order_items (order_id, instrument_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	for _, line := range lines {
		var (
			name  string
			price decimal.Decimal
			stock int
		)
		err := tx.QueryRowContext(ctx, lockInstrument, line.InstrumentID).Scan(&name, &price, &stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return types.Order{}, &InstrumentNotFoundError{InstrumentID: line.InstrumentID}
			}
			return types.Order{}, err
		}

		if stock < line.Quantity {
			return types.Order{}, &InsufficientStockError{
				InstrumentID: line.InstrumentID,
				Name:         name,
				Requested:    line.Quantity,
				Available:    stock,
			}
		}

		if _, err := tx.ExecContext(ctx, decrementStock, line.Quantity, time.Now(), line.InstrumentID); err != nil {
			return types.Order{}, err
		}

		item := types.OrderItem{
			OrderID:         order.ID,
			InstrumentID:    line.InstrumentID,
			InstrumentName:  name,
			Quantity:        line.Quantity,
			PriceAtPurchase: price,
		}
		if err := tx.QueryRowContext(ctx, insertItem, item.OrderID, item.InstrumentID, item.Quantity, item.PriceAtPurchase).Scan(&item.ID); err != nil {
			return types.Order{}, err
		}

		order.Items = append(order.Items, item)
		order.TotalAmount = order.TotalAmount.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	const setTotal = `UPDATE orders SET total_amount = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, setTotal, order.TotalAmount, order.ID); err != nil {
		return types.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Order{}, err
	}
	return order, nil
}

const orderSelect = `
	SELECT o.id, o.user_id, u.username, o.order_date, o.total_amount, o.status
	FROM orders o
	JOIN users u ON u.id = o.user_id`

func (r *OrderRepository) Get(ctx context.Context, id int) (types.Order, error) {
	const query = orderSelect + ` WHERE o.id = $1`
	var order types.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.Username,
		&order.OrderDate,
		&order.TotalAmount,
		&order.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Order{}, ErrNotFound
		}
		return types.Order{}, err
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return types.Order{}, err
	}
	order.Items = items
	return order, nil
}

func (r *OrderRepository) getItems(ctx context.Context, orderID int) ([]types.OrderItem, error) {
	const query = `
		SELECT oi.id, oi.order_id, oi.instrument_id, i.name, oi.quantity, oi.price_at_purchase
		FROM order_items oi
		JOIN instruments i ON i.id = oi.instrument_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []types.OrderItem
	for rows.Next() {
		var item types.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.InstrumentID,
			&item.InstrumentName,
			&item.Quantity,
			&item.PriceAtPurchase,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns a page of orders. A non-zero userID restricts to that
// user's orders. Items are not loaded for listings.
func (r *OrderRepository) List(ctx context.Context, userID, offset, limit int) ([]types.Order, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `SELECT COUNT(1) FROM orders WHERE ($1 = 0 OR user_id = $1)`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = orderSelect + `
		WHERE ($1 = 0 OR o.user_id = $1)
		ORDER BY o.id DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, listQuery, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]types.Order, 0, limit)
	for rows.Next() {
		var order types.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Username,
			&order.OrderDate,
			&order.TotalAmount,
			&order.Status,
		); err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus overwrites the status of an order. No other field is
// touched after creation.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status types.OrderStatus) error {
	const query = `UPDATE orders SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an order and, through the cascade, its items. Stock
// is not restored.
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM orders WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
