package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/engineers-ent/backend-nirman/internal/order"
)

// CreateOrder persists an order and its items in one transaction. The
// sequential order number comes from a database sequence so concurrent
// writers never collide.
func (s *Store) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return order.Order{}, fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	o.ID = uuid.NewString()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, order_no, customer_id, total_price, status, delivery_date, delivery_address, created_at, created_by)
		VALUES ($1, 'ORD-' || nextval('order_no_seq'), $2, $3, $4, $5, $6, $7, $8)
		RETURNING order_no`,
		o.ID, o.CustomerID, o.TotalPrice, string(o.Status),
		o.DeliveryDate, o.DeliveryAddress, o.CreatedAt, o.CreatedBy,
	).Scan(&o.OrderNo)
	if err != nil {
		return order.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, position, product_id, quantity, pillar_feet, selected_top_id, selected_bottom_id, calculated_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			o.ID, i, item.ProductID, item.Quantity, item.PillarFeet,
			item.SelectedTopID, item.SelectedBottomID, item.CalculatedPrice)
		if err != nil {
			return order.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("commit order: %w", err)
	}
	return o, nil
}

// ListOrders returns orders newest-first with their items and the total count.
func (s *Store) ListOrders(ctx context.Context, page, limit int) ([]order.Order, int, error) {
	var total int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM orders").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, order_no, customer_id, total_price, status, delivery_date, delivery_address, created_at, created_by
		FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := s.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}
	return orders, total, nil
}

// GetOrder fetches one order with its items.
func (s *Store) GetOrder(ctx context.Context, id string) (order.Order, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, order_no, customer_id, total_price, status, delivery_date, delivery_address, created_at, created_by
		FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, err
	}
	o.Items, err = s.orderItems(ctx, o.ID)
	if err != nil {
		return order.Order{}, err
	}
	return o, nil
}

// UpdateOrderStatus sets the status and returns the updated order.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status order.Status) (order.Order, error) {
	tag, err := s.Pool.Exec(ctx, "UPDATE orders SET status = $2 WHERE id = $1", id, string(status))
	if err != nil {
		return order.Order{}, fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.Order{}, order.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

// DeleteOrder removes an order; items cascade.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (order.Order, error) {
	var (
		o      order.Order
		status string
	)
	err := row.Scan(&o.ID, &o.OrderNo, &o.CustomerID, &o.TotalPrice, &status,
		&o.DeliveryDate, &o.DeliveryAddress, &o.CreatedAt, &o.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, pgx.ErrNoRows
		}
		return order.Order{}, fmt.Errorf("scan order: %w", err)
	}
	o.Status = order.Status(status)
	return o, nil
}

func (s *Store) orderItems(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT product_id, quantity, pillar_feet, selected_top_id, selected_bottom_id, calculated_price
		FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.PillarFeet,
			&item.SelectedTopID, &item.SelectedBottomID, &item.CalculatedPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}
