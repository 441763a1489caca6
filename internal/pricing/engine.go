package pricing

// Money represents a monetary value stored in whole currency units.
type Money = int64

// Part describes a selectable pillar component (a top or a base).
type Part struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Height string `json:"height"`
	Price  Money  `json:"price"`
	Image  string `json:"image,omitempty"`
}

// Config holds the configurable composition of a pillar product.
type Config struct {
	Tops               []Part `json:"tops"`
	MiddlePricePerFoot Money  `json:"middlePricePerFoot"`
	Bottoms            []Part `json:"bottoms"`
}

// Product carries the pricing-relevant subset of a catalog product.
type Product struct {
	IsPillar bool
	Price    *Money
	Config   *Config
}

// Selection captures the shopper's choice for a configurable product.
// Empty part ids and zero feet are valid; they simply contribute nothing.
type Selection struct {
	TopID    string `json:"topId,omitempty"`
	BottomID string `json:"bottomId,omitempty"`
	Feet     int    `json:"feet,omitempty"`
}

// Warning flags a non-fatal pricing inconsistency.
type Warning string

const (
	// WarnNoFlatPrice indicates a fixed-price product without a price; it is
	// priced as zero rather than rejected.
	WarnNoFlatPrice Warning = "product has no price, treated as 0"
	// WarnNoTopSelected indicates a pillar quoted without a top part.
	WarnNoTopSelected Warning = "no top selected"
	// WarnNoBottomSelected indicates a pillar quoted without a base part.
	WarnNoBottomSelected Warning = "no base selected"
	// WarnUnknownTop indicates the selected top id matched no configured part.
	WarnUnknownTop Warning = "selected top not found"
	// WarnUnknownBottom indicates the selected base id matched no configured part.
	WarnUnknownBottom Warning = "selected base not found"
)

// FindPart looks a part up by id within a bounded part list.
func FindPart(parts []Part, id string) (Part, bool) {
	if id == "" {
		return Part{}, false
	}
	for _, p := range parts {
		if p.ID == id {
			return p, true
		}
	}
	return Part{}, false
}

// UnitPrice computes the price of a single unit of the product for the given
// selection. Unmatched or absent part ids contribute zero; the result is
// never negative for non-negative inputs.
func UnitPrice(p Product, sel Selection) Money {
	if !p.IsPillar {
		if p.Price == nil {
			return 0
		}
		return *p.Price
	}
	if p.Config == nil {
		return 0
	}
	var price Money
	if top, ok := FindPart(p.Config.Tops, sel.TopID); ok {
		price += top.Price
	}
	if bottom, ok := FindPart(p.Config.Bottoms, sel.BottomID); ok {
		price += bottom.Price
	}
	feet := sel.Feet
	if feet < 0 {
		feet = 0
	}
	price += p.Config.MiddlePricePerFoot * Money(feet)
	return price
}

// LinePrice computes the total for a line of qty units. Quantities below one
// are clamped to one.
func LinePrice(p Product, sel Selection, qty int) Money {
	if qty < 1 {
		qty = 1
	}
	return UnitPrice(p, sel) * Money(qty)
}

// Check reports non-fatal inconsistencies in the product/selection pair.
// These are surfaced to the admin UI as warnings, never as errors.
func Check(p Product, sel Selection) []Warning {
	var warnings []Warning
	if !p.IsPillar {
		if p.Price == nil {
			warnings = append(warnings, WarnNoFlatPrice)
		}
		return warnings
	}
	if p.Config == nil {
		return append(warnings, WarnNoFlatPrice)
	}
	switch {
	case sel.TopID == "":
		warnings = append(warnings, WarnNoTopSelected)
	default:
		if _, ok := FindPart(p.Config.Tops, sel.TopID); !ok {
			warnings = append(warnings, WarnUnknownTop)
		}
	}
	switch {
	case sel.BottomID == "":
		warnings = append(warnings, WarnNoBottomSelected)
	default:
		if _, ok := FindPart(p.Config.Bottoms, sel.BottomID); !ok {
			warnings = append(warnings, WarnUnknownBottom)
		}
	}
	return warnings
}
