package invoice

import (
	"testing"

	"github.com/engineers-ent/backend-nirman/internal/catalog"
	"github.com/engineers-ent/backend-nirman/internal/order"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

func pillarProduct() catalog.Product {
	return catalog.Product{
		ID:       "p1",
		Name:     "রাজকীয় গোল পিলার",
		IsPillar: true,
		PillarConfig: &pricing.Config{
			Tops:               []pricing.Part{{ID: "t1", Name: "ক্লাসিক রাউন্ড টপ", Price: 1500}},
			MiddlePricePerFoot: 450,
			Bottoms:            []pricing.Part{{ID: "b1", Name: "স্ট্যান্ডার্ড বেস", Price: 2000}},
		},
	}
}

func TestDescribePillarLine(t *testing.T) {
	got := DescribeLine(order.Item{
		ProductID:        "p1",
		Quantity:         4,
		PillarFeet:       10,
		SelectedTopID:    "t1",
		SelectedBottomID: "b1",
		CalculatedPrice:  32000,
	}, pillarProduct())

	if got.TopName != "ক্লাসিক রাউন্ড টপ" || got.BottomName != "স্ট্যান্ডার্ড বেস" {
		t.Fatalf("part names: got %q / %q", got.TopName, got.BottomName)
	}
	if got.Feet != 10 || got.RatePerFoot != 450 {
		t.Fatalf("feet/rate: got %d / %d", got.Feet, got.RatePerFoot)
	}
	if got.UnitPrice != 8000 || got.LineTotal != 32000 {
		t.Fatalf("prices: got unit %d total %d", got.UnitPrice, got.LineTotal)
	}
}

func TestDescribeUnselectedPartsUsePlaceholder(t *testing.T) {
	got := DescribeLine(order.Item{
		ProductID:       "p1",
		Quantity:        1,
		PillarFeet:      10,
		CalculatedPrice: 4500,
	}, pillarProduct())

	if got.TopName != Placeholder || got.BottomName != Placeholder {
		t.Fatalf("expected placeholder names, got %q / %q", got.TopName, got.BottomName)
	}
	if got.UnitPrice != 4500 {
		t.Fatalf("unit price: got %d", got.UnitPrice)
	}
}

func TestDescribeDeletedPartsUsePlaceholder(t *testing.T) {
	// the selected parts were removed from the catalog after the order
	// was placed; the ids no longer resolve
	got := DescribeLine(order.Item{
		ProductID:        "p1",
		Quantity:         4,
		PillarFeet:       10,
		SelectedTopID:    "t-deleted",
		SelectedBottomID: "b-deleted",
		CalculatedPrice:  32000,
	}, pillarProduct())

	if got.TopName != Placeholder || got.BottomName != Placeholder {
		t.Fatalf("expected placeholder names for stale part ids, got %q / %q", got.TopName, got.BottomName)
	}
	if got.RatePerFoot != 450 {
		t.Fatalf("rate per foot: got %d", got.RatePerFoot)
	}
	if got.LineTotal != 32000 || got.UnitPrice != 8000 {
		t.Fatalf("snapshot prices must be untouched: unit %d total %d", got.UnitPrice, got.LineTotal)
	}
}

func TestDescribeFlatLine(t *testing.T) {
	got := DescribeLine(order.Item{
		ProductID:       "p2",
		Quantity:        10,
		CalculatedPrice: 850,
	}, catalog.Product{ID: "p2", Name: "ফ্যান্সি ওয়াল ব্লক"})

	if got.IsPillar {
		t.Fatal("flat product described as pillar")
	}
	if got.TopName != "" || got.BottomName != "" || got.Feet != 0 {
		t.Fatalf("flat line carries pillar fields: %+v", got)
	}
	if got.UnitPrice != 85 || got.LineTotal != 850 {
		t.Fatalf("prices: got unit %d total %d", got.UnitPrice, got.LineTotal)
	}
}

func TestDescribeZeroQuantityStillRenders(t *testing.T) {
	got := DescribeLine(order.Item{ProductID: "p2", Quantity: 0, CalculatedPrice: 85},
		catalog.Product{ID: "p2", Name: "ফ্যান্সি ওয়াল ব্লক"})
	if got.Quantity != 1 || got.UnitPrice != 85 {
		t.Fatalf("zero quantity: got qty %d unit %d", got.Quantity, got.UnitPrice)
	}
}

func TestNumberForTracksOrderSequence(t *testing.T) {
	cases := []struct {
		orderNo string
		want    string
	}{
		{"ORD-1001", "INV-2001"},
		{"ORD-1002", "INV-2002"},
		{"ORD-1050", "INV-2050"},
		{"weird", "INV-2001"},
	}
	for _, tc := range cases {
		if got := NumberFor("INV-", 2001, tc.orderNo); got != tc.want {
			t.Fatalf("NumberFor(%q): got %q want %q", tc.orderNo, got, tc.want)
		}
	}
}
