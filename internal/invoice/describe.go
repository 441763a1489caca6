package invoice

import (
	"github.com/engineers-ent/backend-nirman/internal/catalog"
	"github.com/engineers-ent/backend-nirman/internal/order"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

// Placeholder is printed for a pillar part the customer never picked.
const Placeholder = "নেই"

// LineDescription is one printable invoice row. Prices come from the order
// item's snapshot, never from the current catalog.
type LineDescription struct {
	ProductID   string        `json:"productId"`
	ProductName string        `json:"productName"`
	IsPillar    bool          `json:"isPillar"`
	TopName     string        `json:"topName,omitempty"`
	BottomName  string        `json:"bottomName,omitempty"`
	Feet        int           `json:"feet,omitempty"`
	RatePerFoot pricing.Money `json:"ratePerFoot,omitempty"`
	Quantity    int           `json:"quantity"`
	UnitPrice   pricing.Money `json:"unitPrice"`
	LineTotal   pricing.Money `json:"lineTotal"`
}

// DescribeLine renders an order item against its product for printing.
// It never fails: a product whose pillar parts have since been removed
// still describes, with the placeholder standing in for the lost names.
func DescribeLine(item order.Item, p catalog.Product) LineDescription {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	desc := LineDescription{
		ProductID:   item.ProductID,
		ProductName: p.Name,
		IsPillar:    p.IsPillar,
		Quantity:    qty,
		UnitPrice:   item.CalculatedPrice / pricing.Money(qty),
		LineTotal:   item.CalculatedPrice,
	}
	if !p.IsPillar {
		return desc
	}

	desc.Feet = item.PillarFeet
	desc.TopName = Placeholder
	desc.BottomName = Placeholder
	if p.PillarConfig == nil {
		return desc
	}
	desc.RatePerFoot = p.PillarConfig.MiddlePricePerFoot
	if top, ok := pricing.FindPart(p.PillarConfig.Tops, item.SelectedTopID); ok {
		desc.TopName = top.Name
	}
	if bottom, ok := pricing.FindPart(p.PillarConfig.Bottoms, item.SelectedBottomID); ok {
		desc.BottomName = bottom.Name
	}
	return desc
}
