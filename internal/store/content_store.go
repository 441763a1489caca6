package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/engineers-ent/backend-nirman/internal/content"
)

// ListPosts returns a page of posts, optionally published only.
func (s *Store) ListPosts(ctx context.Context, publishedOnly bool, page, limit int) ([]content.BlogPost, int, error) {
	where := ""
	if publishedOnly {
		where = " WHERE is_published = true"
	}
	var total int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM blog_posts"+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	rows, err := s.Pool.Query(ctx, fmt.Sprintf(`
		SELECT id, title, body, image, is_published, created_at, updated_at
		FROM blog_posts%s ORDER BY created_at DESC LIMIT $1 OFFSET $2`, where),
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []content.BlogPost
	for rows.Next() {
		var p content.BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.Image, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, total, nil
}

// GetPost fetches one post by id.
func (s *Store) GetPost(ctx context.Context, id string) (content.BlogPost, error) {
	var p content.BlogPost
	err := s.Pool.QueryRow(ctx, `
		SELECT id, title, body, image, is_published, created_at, updated_at
		FROM blog_posts WHERE id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Body, &p.Image, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.BlogPost{}, content.ErrNotFound
		}
		return content.BlogPost{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// CreatePost inserts a post, assigning its id.
func (s *Store) CreatePost(ctx context.Context, p content.BlogPost) (content.BlogPost, error) {
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO blog_posts (id, title, body, image, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Title, p.Body, p.Image, p.IsPublished, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return content.BlogPost{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// UpdatePost replaces a post's mutable fields.
func (s *Store) UpdatePost(ctx context.Context, p content.BlogPost) (content.BlogPost, error) {
	p.UpdatedAt = time.Now().UTC()
	tag, err := s.Pool.Exec(ctx, `
		UPDATE blog_posts SET title = $2, body = $3, image = $4, is_published = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.Title, p.Body, p.Image, p.IsPublished, p.UpdatedAt)
	if err != nil {
		return content.BlogPost{}, fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return content.BlogPost{}, content.ErrNotFound
	}
	return s.GetPost(ctx, p.ID)
}

// DeletePost removes a post.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, "DELETE FROM blog_posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return content.ErrNotFound
	}
	return nil
}

// GetSettings reads the single settings row.
func (s *Store) GetSettings(ctx context.Context) (content.Settings, error) {
	var out content.Settings
	err := s.Pool.QueryRow(ctx, `
		SELECT company_name, company_address, company_phone, company_email,
		       invoice_prefix, invoice_start_number, invoice_terms, default_order_status
		FROM app_settings WHERE id = 1`).
		Scan(&out.CompanyName, &out.CompanyAddress, &out.CompanyPhone, &out.CompanyEmail,
			&out.InvoicePrefix, &out.InvoiceStartNumber, &out.InvoiceTerms, &out.DefaultOrderStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Settings{}, content.ErrNotFound
		}
		return content.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return out, nil
}

// SaveSettings upserts the single settings row.
func (s *Store) SaveSettings(ctx context.Context, in content.Settings) (content.Settings, error) {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO app_settings (id, company_name, company_address, company_phone, company_email,
		                          invoice_prefix, invoice_start_number, invoice_terms, default_order_status)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			company_address = EXCLUDED.company_address,
			company_phone = EXCLUDED.company_phone,
			company_email = EXCLUDED.company_email,
			invoice_prefix = EXCLUDED.invoice_prefix,
			invoice_start_number = EXCLUDED.invoice_start_number,
			invoice_terms = EXCLUDED.invoice_terms,
			default_order_status = EXCLUDED.default_order_status`,
		in.CompanyName, in.CompanyAddress, in.CompanyPhone, in.CompanyEmail,
		in.InvoicePrefix, in.InvoiceStartNumber, in.InvoiceTerms, in.DefaultOrderStatus)
	if err != nil {
		return content.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return in, nil
}
