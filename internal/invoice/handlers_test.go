package invoice

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/engineers-ent/backend-nirman/internal/catalog"
	"github.com/engineers-ent/backend-nirman/internal/customer"
	"github.com/engineers-ent/backend-nirman/internal/obs"
	"github.com/engineers-ent/backend-nirman/internal/order"
)

type fakeOrders map[string]order.Order

func (f fakeOrders) Get(_ context.Context, id string) (order.Order, error) {
	o, ok := f[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

type fakeCustomers map[string]customer.Customer

func (f fakeCustomers) Get(_ context.Context, id string) (customer.Customer, error) {
	c, ok := f[id]
	if !ok {
		return customer.Customer{}, customer.ErrNotFound
	}
	return c, nil
}

type fakeProducts map[string]catalog.Product

func (f fakeProducts) FetchProduct(_ context.Context, id string) (catalog.Product, error) {
	p, ok := f[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

type fakeSettings BillingSettings

func (f fakeSettings) Billing(context.Context) (BillingSettings, error) {
	return BillingSettings(f), nil
}

func TestRenderInvoice(t *testing.T) {
	obs.MustRegisterDomainMetrics("nirman", prometheus.NewRegistry())
	renderedBefore := testutil.ToFloat64(obs.InvoicesRenderedTotal)

	svc := &Service{
		Orders: fakeOrders{"o1": {
			ID:         "o1",
			OrderNo:    "ORD-1003",
			CustomerID: "c1",
			TotalPrice: 32085,
			Items: []order.Item{
				{ProductID: "p1", Quantity: 4, PillarFeet: 10, SelectedTopID: "t1", SelectedBottomID: "b1", CalculatedPrice: 32000},
				{ProductID: "p-gone", Quantity: 1, CalculatedPrice: 85},
			},
		}},
		Customers: fakeCustomers{"c1": {ID: "c1", Name: "করিম উদ্দিন"}},
		Products:  fakeProducts{"p1": pillarProduct()},
		Settings: fakeSettings{
			Prefix:      "INV-",
			StartNumber: 2001,
			Terms:       "ডেলিভারির সময় পূর্ণ মূল্য পরিশোধযোগ্য",
			CompanyName: "ইঞ্জিনিয়ার্স এন্টারপ্রাইজ",
		},
	}

	inv, err := svc.Render(context.Background(), "o1")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if inv.Number != "INV-2003" {
		t.Fatalf("invoice number: got %q", inv.Number)
	}
	if len(inv.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(inv.Lines))
	}
	if inv.Lines[0].TopName != "ক্লাসিক রাউন্ড টপ" {
		t.Fatalf("pillar line top: got %q", inv.Lines[0].TopName)
	}
	// p-gone was removed from the catalog; its snapshot still prints
	if inv.Lines[1].ProductName != Placeholder || inv.Lines[1].LineTotal != 85 {
		t.Fatalf("deleted product line: %+v", inv.Lines[1])
	}
	if inv.TotalPrice != 32085 {
		t.Fatalf("total: got %d", inv.TotalPrice)
	}

	if got := testutil.ToFloat64(obs.InvoicesRenderedTotal); got != renderedBefore+1 {
		t.Fatalf("rendered counter: got %v want %v", got, renderedBefore+1)
	}
}
