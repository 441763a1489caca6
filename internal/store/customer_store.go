package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/engineers-ent/backend-nirman/internal/customer"
)

// ListCustomers returns a page of customers with the unpaginated total.
func (s *Store) ListCustomers(ctx context.Context, page, limit int) ([]customer.Customer, int, error) {
	var total int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM customers").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, phone, address, notes, created_at
		FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []customer.Customer
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, total, nil
}

// GetCustomer fetches one customer by id.
func (s *Store) GetCustomer(ctx context.Context, id string) (customer.Customer, error) {
	var c customer.Customer
	err := s.Pool.QueryRow(ctx, `
		SELECT id, name, phone, address, notes, created_at
		FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.Customer{}, customer.ErrNotFound
		}
		return customer.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// FetchCustomer satisfies the order composer's customer gateway.
func (s *Store) FetchCustomer(ctx context.Context, id string) (customer.Customer, error) {
	return s.GetCustomer(ctx, id)
}

// CreateCustomer inserts a customer, assigning its id.
func (s *Store) CreateCustomer(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO customers (id, name, phone, address, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Phone, c.Address, c.Notes, c.CreatedAt)
	if err != nil {
		return customer.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

// UpdateCustomer replaces a customer's mutable fields.
func (s *Store) UpdateCustomer(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE customers SET name = $2, phone = $3, address = $4, notes = $5
		WHERE id = $1`,
		c.ID, c.Name, c.Phone, c.Address, c.Notes)
	if err != nil {
		return customer.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return customer.Customer{}, customer.ErrNotFound
	}
	return s.GetCustomer(ctx, c.ID)
}

// DeleteCustomer removes a customer.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}
