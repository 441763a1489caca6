package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/engineers-ent/backend-nirman/internal/catalog"
	"github.com/engineers-ent/backend-nirman/internal/common"
	"github.com/engineers-ent/backend-nirman/internal/customer"
	"github.com/engineers-ent/backend-nirman/internal/events"
	"github.com/engineers-ent/backend-nirman/internal/obs"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

// ErrNotFound is returned when an order reference does not resolve.
var ErrNotFound = errors.New("order: not found")

// Item is one order line. CalculatedPrice is the build-time snapshot of the
// full line total (unit price times quantity); it is never recomputed, so
// later catalog edits cannot rewrite historical invoices.
type Item struct {
	ProductID        string        `json:"productId"`
	Quantity         int           `json:"quantity"`
	PillarFeet       int           `json:"pillarFeet,omitempty"`
	SelectedTopID    string        `json:"selectedTopId,omitempty"`
	SelectedBottomID string        `json:"selectedBottomId,omitempty"`
	CalculatedPrice  pricing.Money `json:"calculatedPrice"`
}

// Order is a placed order with snapshot line prices.
type Order struct {
	ID              string        `json:"id"`
	OrderNo         string        `json:"orderNo"`
	CustomerID      string        `json:"customerId"`
	Items           []Item        `json:"items"`
	TotalPrice      pricing.Money `json:"totalPrice"`
	Status          Status        `json:"status"`
	DeliveryDate    string        `json:"deliveryDate"`
	DeliveryAddress string        `json:"deliveryAddress"`
	CreatedAt       time.Time     `json:"createdAt"`
	CreatedBy       string        `json:"createdBy"`
}

// LineInput is one (product, selection, quantity) tuple from the admin
// order-entry flow.
type LineInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
	Feet      int    `json:"feet" validate:"gte=0"`
	TopID     string `json:"topId"`
	BottomID  string `json:"bottomId"`
}

// BuildInput bundles everything needed to compose an order.
type BuildInput struct {
	CustomerID      string      `json:"customerId" validate:"required"`
	Items           []LineInput `json:"items" validate:"min=1,dive"`
	DeliveryDate    string      `json:"deliveryDate"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Status          Status      `json:"status"`
}

// ProductGateway resolves product references from the content store.
type ProductGateway interface {
	FetchProduct(ctx context.Context, id string) (catalog.Product, error)
}

// CustomerGateway resolves customer references from the content store.
type CustomerGateway interface {
	FetchCustomer(ctx context.Context, id string) (customer.Customer, error)
}

// Store persists composed orders.
type Store interface {
	CreateOrder(ctx context.Context, o Order) (Order, error)
	ListOrders(ctx context.Context, page, limit int) ([]Order, int, error)
	GetOrder(ctx context.Context, id string) (Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status Status) (Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// Emitter publishes domain events after successful writes.
type Emitter interface {
	Emit(ctx context.Context, topic, aggregateID string, payload any) error
}

// Service composes, persists, and transitions orders.
type Service struct {
	Products  ProductGateway
	Customers CustomerGateway
	Store     Store
	Events    Emitter
	Logger    *zerolog.Logger
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Build composes an in-memory order from the input, snapshotting each line's
// price at the product's current configuration. No side effects; persistence
// is the caller's concern.
func (s *Service) Build(ctx context.Context, in BuildInput, actor string) (Order, []pricing.Warning, error) {
	if len(in.Items) == 0 {
		return Order{}, nil, common.ValidationError("items", "an order must have at least one item")
	}
	if in.CustomerID == "" {
		return Order{}, nil, common.ValidationError("customerId", "customer is required")
	}
	if _, err := s.Customers.FetchCustomer(ctx, in.CustomerID); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return Order{}, nil, common.ValidationError("customerId", "customer does not exist")
		}
		return Order{}, nil, fmt.Errorf("resolve customer: %w", err)
	}
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return Order{}, nil, common.ValidationError("status", fmt.Sprintf("unknown status %q", in.Status))
	}

	var warnings []pricing.Warning
	items := make([]Item, 0, len(in.Items))
	var total pricing.Money
	for _, line := range in.Items {
		product, err := s.Products.FetchProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return Order{}, nil, common.ValidationError("items", fmt.Sprintf("product %s does not exist", line.ProductID))
			}
			return Order{}, nil, fmt.Errorf("resolve product %s: %w", line.ProductID, err)
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		feet := line.Feet
		if feet < 0 {
			feet = 0
		}
		sel := pricing.Selection{TopID: line.TopID, BottomID: line.BottomID, Feet: feet}
		pp := product.Pricing()
		linePrice := pricing.LinePrice(pp, sel, qty)
		warnings = append(warnings, pricing.Check(pp, sel)...)

		item := Item{
			ProductID:       product.ID,
			Quantity:        qty,
			CalculatedPrice: linePrice,
		}
		if product.IsPillar {
			item.PillarFeet = feet
			item.SelectedTopID = line.TopID
			item.SelectedBottomID = line.BottomID
		}
		items = append(items, item)
		total += linePrice
	}

	return Order{
		CustomerID:      in.CustomerID,
		Items:           items,
		TotalPrice:      total,
		Status:          status,
		DeliveryDate:    in.DeliveryDate,
		DeliveryAddress: in.DeliveryAddress,
		CreatedAt:       s.now(),
		CreatedBy:       actor,
	}, warnings, nil
}

// Create builds the order and persists it. The store assigns the id and the
// sequential order number.
func (s *Service) Create(ctx context.Context, in BuildInput, actor string) (Order, []pricing.Warning, error) {
	built, warnings, err := s.Build(ctx, in, actor)
	if err != nil {
		return Order{}, nil, err
	}
	if s.Logger != nil {
		for _, warning := range warnings {
			s.Logger.Warn().Str("customer_id", in.CustomerID).Str("warning", string(warning)).Msg("order_pricing_warning")
		}
	}
	created, err := s.Store.CreateOrder(ctx, built)
	if err != nil {
		return Order{}, nil, fmt.Errorf("persist order: %w", err)
	}
	if obs.OrdersCreatedTotal != nil {
		obs.OrdersCreatedTotal.WithLabelValues(string(created.Status)).Inc()
	}
	if s.Events != nil {
		_ = s.Events.Emit(ctx, events.TopicOrderCreated, created.ID, map[string]any{
			"orderId":    created.ID,
			"orderNo":    created.OrderNo,
			"customerId": created.CustomerID,
			"totalPrice": created.TotalPrice,
		})
	}
	return created, warnings, nil
}

// List returns orders newest-first with a total count.
func (s *Service) List(ctx context.Context, page, limit int) ([]Order, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.Store.ListOrders(ctx, page, limit)
}

// Get returns a single order by id.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	ord, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, common.NotFound("order not found", err)
		}
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return ord, nil
}

// SetStatus transitions an order's status, enforcing the monotonic
// lifecycle. Item price snapshots are untouched.
func (s *Service) SetStatus(ctx context.Context, id string, to Status) (Order, error) {
	if !to.Valid() {
		return Order{}, common.ValidationError("status", fmt.Sprintf("unknown status %q", to))
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !current.Status.CanTransition(to) {
		return Order{}, common.ValidationError("status", fmt.Sprintf("cannot move order from %s back to %s", current.Status, to))
	}
	updated, err := s.Store.UpdateOrderStatus(ctx, id, to)
	if err != nil {
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	if obs.OrderStatusTransitions != nil && updated.Status != current.Status {
		obs.OrderStatusTransitions.WithLabelValues(string(current.Status), string(updated.Status)).Inc()
	}
	if s.Events != nil && updated.Status != current.Status {
		_ = s.Events.Emit(ctx, events.TopicOrderStatusChanged, updated.ID, map[string]any{
			"orderId": updated.ID,
			"orderNo": updated.OrderNo,
			"from":    current.Status,
			"to":      updated.Status,
		})
	}
	return updated, nil
}

// Delete removes an order. Only drafts may be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != StatusDraft {
		return common.ValidationError("status", "only draft orders can be deleted")
	}
	if err := s.Store.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
