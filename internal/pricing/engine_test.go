package pricing

import "testing"

func flatProduct(price Money) Product {
	return Product{Price: &price}
}

func pillarProduct() Product {
	return Product{
		IsPillar: true,
		Config: &Config{
			Tops: []Part{
				{ID: "t1", Name: "ক্লাসিক রাউন্ড টপ", Height: "১ ফুট", Price: 1500},
				{ID: "t2", Name: "স্কয়ার কার্ভড টপ", Height: "১.২ ফুট", Price: 1800},
			},
			MiddlePricePerFoot: 450,
			Bottoms: []Part{
				{ID: "b1", Name: "স্ট্যান্ডার্ড বেস", Height: "১.৫ ফুট", Price: 2000},
				{ID: "b2", Name: "ডিজাইনার হেভি বেস", Height: "২ ফুট", Price: 2800},
			},
		},
	}
}

func TestLinePriceFlatProduct(t *testing.T) {
	got := LinePrice(flatProduct(500), Selection{}, 3)
	if got != 1500 {
		t.Fatalf("expected 1500, got %d", got)
	}
}

func TestUnitPricePillar(t *testing.T) {
	sel := Selection{TopID: "t1", BottomID: "b1", Feet: 10}
	unit := UnitPrice(pillarProduct(), sel)
	if unit != 8000 {
		t.Fatalf("expected unit price 8000, got %d", unit)
	}
	line := LinePrice(pillarProduct(), sel, 4)
	if line != 32000 {
		t.Fatalf("expected line price 32000, got %d", line)
	}
}

func TestUnitPriceUnknownPartContributesZero(t *testing.T) {
	sel := Selection{TopID: "nope", BottomID: "b1", Feet: 2}
	got := UnitPrice(pillarProduct(), sel)
	if got != 2000+2*450 {
		t.Fatalf("expected 2900, got %d", got)
	}
}

func TestUnitPriceNoSelection(t *testing.T) {
	if got := UnitPrice(pillarProduct(), Selection{}); got != 0 {
		t.Fatalf("expected 0 for empty selection, got %d", got)
	}
}

func TestUnitPriceMissingFlatPrice(t *testing.T) {
	if got := UnitPrice(Product{}, Selection{}); got != 0 {
		t.Fatalf("expected 0 for product without price, got %d", got)
	}
}

func TestUnitPriceNegativeFeetClamped(t *testing.T) {
	sel := Selection{TopID: "t1", Feet: -5}
	if got := UnitPrice(pillarProduct(), sel); got != 1500 {
		t.Fatalf("expected 1500 with negative feet clamped, got %d", got)
	}
}

func TestLinePriceLinearInQuantity(t *testing.T) {
	sel := Selection{TopID: "t2", BottomID: "b2", Feet: 7}
	unit := UnitPrice(pillarProduct(), sel)
	if unit < 0 {
		t.Fatalf("unit price must be non-negative, got %d", unit)
	}
	for qty := 1; qty <= 12; qty++ {
		if got := LinePrice(pillarProduct(), sel, qty); got != unit*Money(qty) {
			t.Fatalf("qty %d: expected %d, got %d", qty, unit*Money(qty), got)
		}
	}
}

func TestLinePriceClampsQuantity(t *testing.T) {
	sel := Selection{TopID: "t1"}
	want := UnitPrice(pillarProduct(), sel)
	if got := LinePrice(pillarProduct(), sel, 0); got != want {
		t.Fatalf("expected qty 0 clamped to 1 (%d), got %d", want, got)
	}
	if got := LinePrice(pillarProduct(), sel, -3); got != want {
		t.Fatalf("expected qty -3 clamped to 1 (%d), got %d", want, got)
	}
}

func TestCheckWarnings(t *testing.T) {
	warnings := Check(pillarProduct(), Selection{})
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings for empty pillar selection, got %v", warnings)
	}
	warnings = Check(pillarProduct(), Selection{TopID: "missing", BottomID: "b1"})
	if len(warnings) != 1 || warnings[0] != WarnUnknownTop {
		t.Fatalf("expected unknown-top warning, got %v", warnings)
	}
	warnings = Check(Product{}, Selection{})
	if len(warnings) != 1 || warnings[0] != WarnNoFlatPrice {
		t.Fatalf("expected missing-price warning, got %v", warnings)
	}
	if warnings = Check(flatProduct(85), Selection{}); warnings != nil {
		t.Fatalf("expected no warnings for priced flat product, got %v", warnings)
	}
}
