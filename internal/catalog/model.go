package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

// ErrNotFound is returned when a product reference does not resolve.
var ErrNotFound = errors.New("catalog: product not found")

// Category is the closed set of product categories carried by the catalog.
type Category string

const (
	CategoryPorchPillar   Category = "PORCH_PILLAR"
	CategoryClearCovering Category = "CLEAR_COVERING"
	CategoryFancyBlock    Category = "FANCY_BLOCK"
	CategoryWindowPillar  Category = "WINDOW_PILLAR"
	CategoryBalconyPillar Category = "BALCONY_PILLAR"
	CategoryBaluster      Category = "BALUSTER"
	CategoryRoofCornice   Category = "ROOF_CORNICE"
	CategoryOther         Category = "OTHER"
)

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryPorchPillar,
		CategoryClearCovering,
		CategoryFancyBlock,
		CategoryWindowPillar,
		CategoryBalconyPillar,
		CategoryBaluster,
		CategoryRoofCornice,
		CategoryOther,
	}
}

// Valid reports whether the category belongs to the known set.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a raw value against the known set, falling back to
// OTHER for anything unrecognised.
func ParseCategory(raw string) Category {
	c := Category(raw)
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Product is a catalog entry: either a fixed-price item or a configurable
// pillar composed of a top, a per-foot body, and a base.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ModelNo      string          `json:"modelNo"`
	Category     Category        `json:"category"`
	Description  string          `json:"description"`
	Images       []string        `json:"images"`
	IsPillar     bool            `json:"isPillar"`
	IsVisible    bool            `json:"isVisible"`
	Price        *pricing.Money  `json:"price,omitempty"`
	PillarConfig *pricing.Config `json:"pillarConfig,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Pricing projects the product onto the pricing engine's view of it.
func (p Product) Pricing() pricing.Product {
	return pricing.Product{IsPillar: p.IsPillar, Price: p.Price, Config: p.PillarConfig}
}

// Validate checks the pillar/flat-price exclusivity invariant.
func (p Product) Validate() error {
	if p.Name == "" {
		return errors.New("catalog: product name is required")
	}
	if p.IsPillar && p.PillarConfig == nil {
		return errors.New("catalog: pillar product requires a pillar config")
	}
	if !p.IsPillar && p.PillarConfig != nil {
		return errors.New("catalog: non-pillar product must not carry a pillar config")
	}
	if p.PillarConfig != nil {
		if err := validateParts("top", p.PillarConfig.Tops); err != nil {
			return err
		}
		if err := validateParts("bottom", p.PillarConfig.Bottoms); err != nil {
			return err
		}
	}
	return nil
}

// validateParts enforces that every part carries an id unique within its
// list. A part without an id could never be selected, and a duplicate would
// silently price as the first match.
func validateParts(kind string, parts []pricing.Part) error {
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		if part.ID == "" {
			return fmt.Errorf("catalog: %s part %q needs an id", kind, part.Name)
		}
		if _, dup := seen[part.ID]; dup {
			return fmt.Errorf("catalog: duplicate %s part id %q", kind, part.ID)
		}
		seen[part.ID] = struct{}{}
	}
	return nil
}
