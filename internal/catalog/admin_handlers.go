package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/engineers-ent/backend-nirman/internal/common"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

// AdminHandler exposes the product CRUD used by the admin dashboard.
type AdminHandler struct {
	Svc      *Service
	Validate *validator.Validate
}

type partInput struct {
	ID     string        `json:"id"`
	Name   string        `json:"name" validate:"required"`
	Height string        `json:"height"`
	Price  pricing.Money `json:"price" validate:"gte=0"`
	Image  string        `json:"image"`
}

type pillarConfigInput struct {
	Tops               []partInput   `json:"tops" validate:"dive"`
	MiddlePricePerFoot pricing.Money `json:"middlePricePerFoot" validate:"gte=0"`
	Bottoms            []partInput   `json:"bottoms" validate:"dive"`
}

type productInput struct {
	Name         string             `json:"name" validate:"required"`
	ModelNo      string             `json:"modelNo"`
	Category     string             `json:"category"`
	Description  string             `json:"description"`
	Images       []string           `json:"images" validate:"dive,url"`
	IsPillar     bool               `json:"isPillar"`
	IsVisible    bool               `json:"isVisible"`
	Price        *pricing.Money     `json:"price" validate:"omitempty,gte=0"`
	PillarConfig *pillarConfigInput `json:"pillarConfig" validate:"required_if=IsPillar true"`
}

// List handles GET /api/v1/admin/products (hidden products included).
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, 20, 100)
	filter := ListFilter{Page: page, Limit: limit}
	if raw := r.URL.Query().Get("category"); raw != "" {
		filter.Category = ParseCategory(raw)
	}
	items, total, err := h.Svc.List(r.Context(), filter)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: limit, TotalItems: total},
	})
}

// Get handles GET /api/v1/admin/products/{productId}.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.Svc.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, product)
}

// Create handles POST /api/v1/admin/products.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.decode(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	created, err := h.Svc.Create(r.Context(), input.toProduct(""))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, created)
}

// Update handles PUT /api/v1/admin/products/{productId}.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, err := h.decode(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	updated, err := h.Svc.Update(r.Context(), input.toProduct(chi.URLParam(r, "productId")))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/admin/products/{productId}. Placed orders
// keep their price snapshots, so deletion never rewrites history.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "productId")); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) decode(r *http.Request) (productInput, error) {
	var input productInput
	if err := common.DecodeJSON(r, &input); err != nil {
		return productInput{}, err
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(input); err != nil {
			return productInput{}, common.ValidationError("product", err.Error())
		}
	}
	return input, nil
}

func (in productInput) toProduct(id string) Product {
	p := Product{
		ID:          id,
		Name:        in.Name,
		ModelNo:     in.ModelNo,
		Category:    ParseCategory(in.Category),
		Description: in.Description,
		Images:      in.Images,
		IsPillar:    in.IsPillar,
		IsVisible:   in.IsVisible,
		Price:       in.Price,
	}
	if in.PillarConfig != nil {
		cfg := pricing.Config{MiddlePricePerFoot: in.PillarConfig.MiddlePricePerFoot}
		for _, part := range in.PillarConfig.Tops {
			cfg.Tops = append(cfg.Tops, part.toPart())
		}
		for _, part := range in.PillarConfig.Bottoms {
			cfg.Bottoms = append(cfg.Bottoms, part.toPart())
		}
		p.PillarConfig = &cfg
	}
	return p
}

// toPart assigns a fresh id to a part the dashboard submitted without one,
// so the part stays selectable and referenced by later order items.
func (in partInput) toPart() pricing.Part {
	p := pricing.Part(in)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p
}
