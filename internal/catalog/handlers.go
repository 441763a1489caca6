package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/engineers-ent/backend-nirman/internal/common"
	"github.com/engineers-ent/backend-nirman/internal/obs"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
)

// Handler exposes public storefront catalog endpoints.
type Handler struct {
	Svc *Service
}

// Categories handles GET /api/v1/categories.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	common.Data(w, http.StatusOK, Categories())
}

// Products handles GET /api/v1/products. Only visible products are listed.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	page, limit := common.ParsePagination(r, 20, 100)
	filter := ListFilter{VisibleOnly: true, Page: page, Limit: limit}
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

// ProductDetail handles GET /api/v1/products/{productId}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	product, err := h.Svc.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if !product.IsVisible {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return
	}
	common.Data(w, http.StatusOK, product)
}

// Quote handles GET /api/v1/products/{productId}/quote, the live price
// preview the pillar customizer calls on every selection change.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	q := r.URL.Query()
	sel := pricing.Selection{
		TopID:    q.Get("topId"),
		BottomID: q.Get("bottomId"),
	}
	if raw := q.Get("feet"); raw != "" {
		feet, err := strconv.Atoi(raw)
		if err != nil || feet < 0 {
			common.WriteError(w, common.BadRequest("feet must be a non-negative integer", err))
			return
		}
		sel.Feet = feet
	}
	qty := 1
	if raw := q.Get("quantity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			common.WriteError(w, common.BadRequest("quantity must be a positive integer", err))
			return
		}
		qty = parsed
	}
	quote, err := h.Svc.QuoteSelection(r.Context(), chi.URLParam(r, "productId"), sel, qty)
	if err != nil {
		if obs.QuoteRequestsTotal != nil {
			obs.QuoteRequestsTotal.WithLabelValues("error").Inc()
		}
		common.WriteError(w, err)
		return
	}
	if obs.QuoteRequestsTotal != nil {
		result := "ok"
		if len(quote.Warnings) > 0 {
			result = "warning"
		}
		obs.QuoteRequestsTotal.WithLabelValues(result).Inc()
	}
	common.Data(w, http.StatusOK, quote)
}
