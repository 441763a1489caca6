package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

// Overview is the admin dashboard summary.
type Overview struct {
	TotalOrders    int           `json:"totalOrders"`
	DraftOrders    int           `json:"draftOrders"`
	TotalRevenue   pricing.Money `json:"totalRevenue"`
	TotalCustomers int           `json:"totalCustomers"`
	TotalProducts  int           `json:"totalProducts"`
}

// DailySales is an aggregated revenue bucket.
type DailySales struct {
	Day     time.Time     `json:"day"`
	Orders  int           `json:"orders"`
	Revenue pricing.Money `json:"revenue"`
}

// Querier defines the database access required for analytics operations.
type Querier interface {
	GetOverview(ctx context.Context) (Overview, error)
	GetDailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

// Service provides cached access to dashboard aggregates.
type Service struct {
	Q            Querier
	R            *redis.Client
	TTL          time.Duration
	DefaultRange int
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

// Overview returns headline counts for the dashboard.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	if s == nil || s.Q == nil {
		return Overview{}, fmt.Errorf("analytics service not configured")
	}
	key := cacheKey("an", "overview")
	var cached Overview
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}
	overview, err := s.Q.GetOverview(ctx)
	if err != nil {
		return Overview{}, err
	}
	s.store(ctx, key, overview)
	return overview, nil
}

// SalesRange returns daily sales between from (inclusive) and to (exclusive).
// A zero range defaults to the configured trailing window.
func (s *Service) SalesRange(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("analytics service not configured")
	}
	if from.IsZero() || to.IsZero() {
		days := s.DefaultRange
		if days <= 0 {
			days = 30
		}
		to = s.now()
		from = to.AddDate(0, 0, -days)
	}
	key := cacheKey("an", "sales", from.Format("2006-01-02"), to.Format("2006-01-02"))
	var cached []DailySales
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.Q.GetDailySales(ctx, from, to)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, rows)
	return rows, nil
}

func (s *Service) fromCache(ctx context.Context, key string, dst any) bool {
	if s.R == nil || s.TTL <= 0 {
		return false
	}
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}
