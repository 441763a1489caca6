package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/engineers-ent/backend-nirman/internal/common"
	"github.com/engineers-ent/backend-nirman/internal/invoice"
)

// ErrNotFound is returned when a post or settings row does not exist.
var ErrNotFound = errors.New("content: not found")

// BlogPost is a storefront article.
type BlogPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Image       string    `json:"image,omitempty"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Settings is the single app-wide settings document.
type Settings struct {
	CompanyName        string `json:"companyName"`
	CompanyAddress     string `json:"companyAddress"`
	CompanyPhone       string `json:"companyPhone"`
	CompanyEmail       string `json:"companyEmail,omitempty"`
	InvoicePrefix      string `json:"invoicePrefix"`
	InvoiceStartNumber int    `json:"invoiceStartNumber"`
	InvoiceTerms       string `json:"invoiceTerms,omitempty"`
	DefaultOrderStatus string `json:"defaultOrderStatus,omitempty"`
}

// DefaultSettings seeds a fresh install.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:        "ইঞ্জিনিয়ার্স এন্টারপ্রাইজ",
		InvoicePrefix:      "INV-",
		InvoiceStartNumber: 1001,
	}
}

// Store persists posts and the settings document.
type Store interface {
	ListPosts(ctx context.Context, publishedOnly bool, page, limit int) ([]BlogPost, int, error)
	GetPost(ctx context.Context, id string) (BlogPost, error)
	CreatePost(ctx context.Context, p BlogPost) (BlogPost, error)
	UpdatePost(ctx context.Context, p BlogPost) (BlogPost, error)
	DeletePost(ctx context.Context, id string) error
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) (Settings, error)
}

// Service exposes blog and settings operations.
type Service struct {
	Store Store
}

func (s *Service) ListPosts(ctx context.Context, publishedOnly bool, page, limit int) ([]BlogPost, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.Store.ListPosts(ctx, publishedOnly, page, limit)
}

func (s *Service) GetPost(ctx context.Context, id string) (BlogPost, error) {
	post, err := s.Store.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return BlogPost{}, common.NotFound("post not found", err)
		}
		return BlogPost{}, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Service) CreatePost(ctx context.Context, p BlogPost) (BlogPost, error) {
	if p.Title == "" {
		return BlogPost{}, common.ValidationError("title", "title is required")
	}
	return s.Store.CreatePost(ctx, p)
}

func (s *Service) UpdatePost(ctx context.Context, p BlogPost) (BlogPost, error) {
	if p.Title == "" {
		return BlogPost{}, common.ValidationError("title", "title is required")
	}
	updated, err := s.Store.UpdatePost(ctx, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return BlogPost{}, common.NotFound("post not found", err)
		}
		return BlogPost{}, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

func (s *Service) DeletePost(ctx context.Context, id string) error {
	if err := s.Store.DeletePost(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("post not found", err)
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// GetSettings returns the settings document, falling back to defaults when
// nothing was ever saved.
func (s *Service) GetSettings(ctx context.Context) (Settings, error) {
	settings, err := s.Store.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

func (s *Service) SaveSettings(ctx context.Context, in Settings) (Settings, error) {
	if in.CompanyName == "" {
		return Settings{}, common.ValidationError("companyName", "company name is required")
	}
	if in.InvoiceStartNumber < 1 {
		return Settings{}, common.ValidationError("invoiceStartNumber", "must be at least 1")
	}
	return s.Store.SaveSettings(ctx, in)
}

// Billing projects the settings document for invoice rendering.
func (s *Service) Billing(ctx context.Context) (invoice.BillingSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return invoice.BillingSettings{}, err
	}
	return invoice.BillingSettings{
		Prefix:         settings.InvoicePrefix,
		StartNumber:    settings.InvoiceStartNumber,
		Terms:          settings.InvoiceTerms,
		CompanyName:    settings.CompanyName,
		CompanyAddress: settings.CompanyAddress,
		CompanyPhone:   settings.CompanyPhone,
	}, nil
}
