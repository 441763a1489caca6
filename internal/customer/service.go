package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/engineers-ent/backend-nirman/internal/common"
	"github.com/engineers-ent/backend-nirman/internal/events"
)

// ErrNotFound is returned when a customer reference does not resolve.
var ErrNotFound = errors.New("customer: not found")

// Customer is an admin-managed customer record referenced by orders.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the customer slice of the content store.
type Store interface {
	ListCustomers(ctx context.Context, page, limit int) ([]Customer, int, error)
	GetCustomer(ctx context.Context, id string) (Customer, error)
	CreateCustomer(ctx context.Context, c Customer) (Customer, error)
	UpdateCustomer(ctx context.Context, c Customer) (Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

// Emitter publishes domain events after successful writes.
type Emitter interface {
	Emit(ctx context.Context, topic, aggregateID string, payload any) error
}

// Service wraps customer CRUD with validation.
type Service struct {
	Store  Store
	Events Emitter
}

// List returns customers with a total count.
func (s *Service) List(ctx context.Context, page, limit int) ([]Customer, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.Store.ListCustomers(ctx, page, limit)
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id string) (Customer, error) {
	c, err := s.Store.GetCustomer(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Customer{}, common.NotFound("customer not found", err)
		}
		return Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// Create persists a new customer record.
func (s *Service) Create(ctx context.Context, c Customer) (Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Customer{}, common.ValidationError("name", "customer name is required")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return Customer{}, common.ValidationError("phone", "customer phone is required")
	}
	created, err := s.Store.CreateCustomer(ctx, c)
	if err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	if s.Events != nil {
		_ = s.Events.Emit(ctx, events.TopicCustomerCreated, created.ID, map[string]any{
			"name":  created.Name,
			"phone": created.Phone,
		})
	}
	return created, nil
}

// Update persists changes to a customer record.
func (s *Service) Update(ctx context.Context, c Customer) (Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Customer{}, common.ValidationError("name", "customer name is required")
	}
	updated, err := s.Store.UpdateCustomer(ctx, c)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Customer{}, common.NotFound("customer not found", err)
		}
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return updated, nil
}

// Delete removes a customer. Orders keep their own snapshots, so history
// survives the deletion.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Store.DeleteCustomer(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("customer not found", err)
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}
