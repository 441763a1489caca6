package store

import (
	"context"
	"fmt"
	"time"

	"github.com/engineers-ent/backend-nirman/internal/analytics"
)

// GetOverview computes headline counts for the dashboard.
func (s *Store) GetOverview(ctx context.Context) (analytics.Overview, error) {
	var o analytics.Overview
	err := s.Pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM orders),
			(SELECT count(*) FROM orders WHERE status = 'DRAFT'),
			(SELECT coalesce(sum(total_price), 0) FROM orders WHERE status <> 'DRAFT'),
			(SELECT count(*) FROM customers),
			(SELECT count(*) FROM products)`).
		Scan(&o.TotalOrders, &o.DraftOrders, &o.TotalRevenue, &o.TotalCustomers, &o.TotalProducts)
	if err != nil {
		return analytics.Overview{}, fmt.Errorf("query overview: %w", err)
	}
	return o, nil
}

// GetDailySales aggregates confirmed revenue per day over a range.
func (s *Store) GetDailySales(ctx context.Context, from, to time.Time) ([]analytics.DailySales, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day, count(*), coalesce(sum(total_price), 0)
		FROM orders
		WHERE status <> 'DRAFT' AND created_at >= $1 AND created_at < $2
		GROUP BY day ORDER BY day`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily sales: %w", err)
	}
	defer rows.Close()

	var out []analytics.DailySales
	for rows.Next() {
		var d analytics.DailySales
		if err := rows.Scan(&d.Day, &d.Orders, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily sales: %w", err)
	}
	return out, nil
}
