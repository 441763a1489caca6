package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/engineers-ent/backend-nirman/internal/catalog"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

const productColumns = `id, name, model_no, category, description, images, is_pillar, is_visible, price, pillar_config, created_at, updated_at`

// ListProducts returns a page of products with the unpaginated total.
func (s *Store) ListProducts(ctx context.Context, filter catalog.ListFilter) ([]catalog.Product, int, error) {
	var conds []string
	var args []any
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.VisibleOnly {
		conds = append(conds, "is_visible = true")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		productColumns, where, len(args)-1, len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return products, total, nil
}

// GetProduct fetches one product by id.
func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	row := s.Pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns), id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Product{}, catalog.ErrNotFound
		}
		return catalog.Product{}, err
	}
	return p, nil
}

// FetchProduct satisfies the order composer's product gateway.
func (s *Store) FetchProduct(ctx context.Context, id string) (catalog.Product, error) {
	return s.GetProduct(ctx, id)
}

// CreateProduct inserts a product, assigning its id.
func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	configJSON, err := encodePillarConfig(p.PillarConfig)
	if err != nil {
		return catalog.Product{}, err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO products (id, name, model_no, category, description, images, is_pillar, is_visible, price, pillar_config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.ModelNo, string(p.Category), p.Description, p.Images,
		p.IsPillar, p.IsVisible, p.Price, configJSON, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces a product's mutable fields.
func (s *Store) UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	configJSON, err := encodePillarConfig(p.PillarConfig)
	if err != nil {
		return catalog.Product{}, err
	}
	p.UpdatedAt = time.Now().UTC()
	tag, err := s.Pool.Exec(ctx, `
		UPDATE products
		SET name = $2, model_no = $3, category = $4, description = $5, images = $6,
		    is_pillar = $7, is_visible = $8, price = $9, pillar_config = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.Name, p.ModelNo, string(p.Category), p.Description, p.Images,
		p.IsPillar, p.IsVisible, p.Price, configJSON, p.UpdatedAt,
	)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return s.GetProduct(ctx, p.ID)
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (catalog.Product, error) {
	var (
		p          catalog.Product
		category   string
		configJSON []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.ModelNo, &category, &p.Description, &p.Images,
		&p.IsPillar, &p.IsVisible, &p.Price, &configJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Product{}, pgx.ErrNoRows
		}
		return catalog.Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.Category = catalog.ParseCategory(category)
	if len(configJSON) > 0 {
		var cfg pricing.Config
		if err := json.Unmarshal(configJSON, &cfg); err != nil {
			return catalog.Product{}, fmt.Errorf("decode pillar config: %w", err)
		}
		p.PillarConfig = &cfg
	}
	return p, nil
}

func encodePillarConfig(cfg *pricing.Config) ([]byte, error) {
	if cfg == nil {
		return nil, nil
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode pillar config: %w", err)
	}
	return data, nil
}
