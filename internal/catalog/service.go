package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/engineers-ent/backend-nirman/internal/common"
	"github.com/engineers-ent/backend-nirman/internal/events"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

// Store is the catalog's view of the content store. Implementations live in
// internal/store; the service never talks to the database directly.
type Store interface {
	ListProducts(ctx context.Context, filter ListFilter) ([]Product, int, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ListFilter captures product listing filters.
type ListFilter struct {
	Category    Category
	VisibleOnly bool
	Page        int
	Limit       int
}

// Quote is the live price preview returned for a selection.
type Quote struct {
	ProductID string            `json:"productId"`
	Selection pricing.Selection `json:"selection"`
	Quantity  int               `json:"quantity"`
	UnitPrice pricing.Money     `json:"unitPrice"`
	LinePrice pricing.Money     `json:"linePrice"`
	Warnings  []pricing.Warning `json:"warnings,omitempty"`
}

// Emitter publishes domain events after successful catalog writes.
type Emitter interface {
	Emit(ctx context.Context, topic, aggregateID string, payload any) error
}

// Service orchestrates catalog reads/writes and caching.
type Service struct {
	store  Store
	cache  *Cache
	events Emitter
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store  Store
	Cache  *Cache
	Events Emitter
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	return &Service{store: cfg.Store, cache: cfg.Cache, events: cfg.Events}, nil
}

// List returns products matching the filter with a total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	key, cacheable := listCacheKey(filter)
	if cacheable {
		var cached cachedList
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached.Items, cached.Total, nil
		}
	}
	items, total, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	if cacheable {
		_ = s.cache.SetJSON(ctx, key, cachedList{Items: items, Total: total})
	}
	return items, total, nil
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, common.BadRequest("product id is required", nil)
	}
	cacheKey := detailCacheKey(id)
	var cached Product
	if ok, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return cached, nil
	}
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, common.NotFound("product not found", err)
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	_ = s.cache.SetJSON(ctx, cacheKey, product)
	return product, nil
}

// QuoteSelection prices a selection against the product's current
// configuration. Pure preview; nothing is persisted.
func (s *Service) QuoteSelection(ctx context.Context, productID string, sel pricing.Selection, qty int) (Quote, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return Quote{}, err
	}
	if qty < 1 {
		qty = 1
	}
	pp := product.Pricing()
	return Quote{
		ProductID: product.ID,
		Selection: sel,
		Quantity:  qty,
		UnitPrice: pricing.UnitPrice(pp, sel),
		LinePrice: pricing.LinePrice(pp, sel, qty),
		Warnings:  pricing.Check(pp, sel),
	}, nil
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	p.Category = ParseCategory(string(p.Category))
	if err := p.Validate(); err != nil {
		return Product{}, common.ValidationError("product", err.Error())
	}
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	s.invalidateLists(ctx)
	return created, nil
}

// Update validates and persists changes to an existing product. Orders keep
// price snapshots, so edits never affect already-placed orders.
func (s *Service) Update(ctx context.Context, p Product) (Product, error) {
	p.Category = ParseCategory(string(p.Category))
	if err := p.Validate(); err != nil {
		return Product{}, common.ValidationError("product", err.Error())
	}
	updated, err := s.store.UpdateProduct(ctx, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, common.NotFound("product not found", err)
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	s.cache.Invalidate(ctx, detailCacheKey(p.ID))
	s.invalidateLists(ctx)
	if s.events != nil {
		_ = s.events.Emit(ctx, events.TopicProductUpdated, updated.ID, map[string]any{
			"name":     updated.Name,
			"category": updated.Category,
		})
	}
	return updated, nil
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("product not found", err)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.cache.Invalidate(ctx, detailCacheKey(id))
	s.invalidateLists(ctx)
	return nil
}

type cachedList struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}

func listCacheKey(filter ListFilter) (string, bool) {
	// only the default storefront page is worth caching
	if !filter.VisibleOnly || filter.Category != "" || filter.Page != 1 || filter.Limit != 20 {
		return "", false
	}
	return "catalog:products:storefront", true
}

func detailCacheKey(id string) string {
	return "catalog:products:detail:" + id
}

func (s *Service) invalidateLists(ctx context.Context) {
	s.cache.Invalidate(ctx, "catalog:products:storefront")
}
