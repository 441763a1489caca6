package order

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/engineers-ent/backend-nirman/internal/common"
)

// AdminHandler exposes the admin order-entry endpoints.
type AdminHandler struct {
	Svc      *Service
	Validate *validator.Validate
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /api/v1/admin/orders. The route is wrapped in the
// Idempotency-Key middleware so a double submit cannot duplicate an order.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input BuildInput
	if err := common.DecodeJSON(r, &input); err != nil {
		common.WriteError(w, err)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(input); err != nil {
			common.WriteError(w, common.ValidationError("order", err.Error()))
			return
		}
	}
	actor, _ := common.StaffName(r.Context())
	created, warnings, err := h.Svc.Create(r.Context(), input, actor)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	body := map[string]any{"data": created}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	common.JSON(w, http.StatusCreated, body)
}

// List handles GET /api/v1/admin/orders.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, 20, 100)
	orders, total, err := h.Svc.List(r.Context(), page, limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       orders,
		"pagination": common.Pagination{Page: page, PerPage: limit, TotalItems: total},
	})
}

// Get handles GET /api/v1/admin/orders/{orderId}.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	ord, err := h.Svc.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, ord)
}

// PatchStatus handles PATCH /api/v1/admin/orders/{orderId}/status.
func (h *AdminHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	var input statusInput
	if err := common.DecodeJSON(r, &input); err != nil {
		common.WriteError(w, err)
		return
	}
	status, err := ParseStatus(input.Status)
	if err != nil {
		common.WriteError(w, common.ValidationError("status", err.Error()))
		return
	}
	updated, err := h.Svc.SetStatus(r.Context(), chi.URLParam(r, "orderId"), status)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/admin/orders/{orderId}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "orderId")); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
