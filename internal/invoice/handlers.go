package invoice

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/engineers-ent/backend-nirman/internal/catalog"
	"github.com/engineers-ent/backend-nirman/internal/common"
	"github.com/engineers-ent/backend-nirman/internal/customer"
	"github.com/engineers-ent/backend-nirman/internal/obs"
	"github.com/engineers-ent/backend-nirman/internal/order"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

// BillingSettings is the slice of app settings the invoice renderer needs.
type BillingSettings struct {
	Prefix         string `json:"prefix"`
	StartNumber    int    `json:"startNumber"`
	Terms          string `json:"terms"`
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyPhone   string `json:"companyPhone"`
}

// Orders resolves an order by id.
type Orders interface {
	Get(ctx context.Context, id string) (order.Order, error)
}

// Customers resolves a customer by id.
type Customers interface {
	Get(ctx context.Context, id string) (customer.Customer, error)
}

// Products resolves the catalog product backing an order item.
type Products interface {
	FetchProduct(ctx context.Context, id string) (catalog.Product, error)
}

// SettingsSource supplies billing settings at render time.
type SettingsSource interface {
	Billing(ctx context.Context) (BillingSettings, error)
}

// Invoice is the printable payload for one order.
type Invoice struct {
	Number     string            `json:"number"`
	Order      order.Order       `json:"order"`
	Customer   customer.Customer `json:"customer"`
	Lines      []LineDescription `json:"lines"`
	TotalPrice pricing.Money     `json:"totalPrice"`
	Terms      string            `json:"terms,omitempty"`
	Company    CompanyInfo       `json:"company"`
}

// CompanyInfo is the letterhead block.
type CompanyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Service assembles invoices from orders, customers, and the catalog.
type Service struct {
	Orders    Orders
	Customers Customers
	Products  Products
	Settings  SettingsSource
}

// Render builds the invoice for an order.
func (s *Service) Render(ctx context.Context, orderID string) (Invoice, error) {
	ord, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return Invoice{}, err
	}
	cust, err := s.Customers.Get(ctx, ord.CustomerID)
	if err != nil {
		return Invoice{}, fmt.Errorf("resolve invoice customer: %w", err)
	}
	billing, err := s.Settings.Billing(ctx)
	if err != nil {
		return Invoice{}, fmt.Errorf("load billing settings: %w", err)
	}

	lines := make([]LineDescription, 0, len(ord.Items))
	for _, item := range ord.Items {
		p, err := s.Products.FetchProduct(ctx, item.ProductID)
		if err != nil {
			// product deleted since the order was placed; the snapshot
			// still prints
			p = catalog.Product{ID: item.ProductID, Name: Placeholder}
		}
		lines = append(lines, DescribeLine(item, p))
	}

	if obs.InvoicesRenderedTotal != nil {
		obs.InvoicesRenderedTotal.Inc()
	}
	return Invoice{
		Number:     NumberFor(billing.Prefix, billing.StartNumber, ord.OrderNo),
		Order:      ord,
		Customer:   cust,
		Lines:      lines,
		TotalPrice: ord.TotalPrice,
		Terms:      billing.Terms,
		Company: CompanyInfo{
			Name:    billing.CompanyName,
			Address: billing.CompanyAddress,
			Phone:   billing.CompanyPhone,
		},
	}, nil
}

// Handler serves rendered invoices to the admin panel.
type Handler struct {
	Svc *Service
}

// Get handles GET /admin/invoices/{orderID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Svc.Render(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, inv)
}
