package content

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/engineers-ent/backend-nirman/internal/common"
)

// Handler serves published posts and settings to the storefront.
type Handler struct {
	Svc *Service
}

// Posts handles GET /blog.
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, 20, 100)
	posts, total, err := h.Svc.ListPosts(r.Context(), true, page, limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	common.Data(w, http.StatusOK, posts)
}

// Post handles GET /blog/{id}.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	post, err := h.Svc.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if !post.IsPublished {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "post not found", nil)
		return
	}
	common.Data(w, http.StatusOK, post)
}

// PublicSettings handles GET /settings. Only the contact block is public.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Svc.GetSettings(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, map[string]string{
		"companyName":    settings.CompanyName,
		"companyAddress": settings.CompanyAddress,
		"companyPhone":   settings.CompanyPhone,
		"companyEmail":   settings.CompanyEmail,
	})
}

type postInput struct {
	Title       string `json:"title" validate:"required"`
	Body        string `json:"body"`
	Image       string `json:"image" validate:"omitempty,url"`
	IsPublished bool   `json:"isPublished"`
}

type settingsInput struct {
	CompanyName        string `json:"companyName" validate:"required"`
	CompanyAddress     string `json:"companyAddress"`
	CompanyPhone       string `json:"companyPhone"`
	CompanyEmail       string `json:"companyEmail" validate:"omitempty,email"`
	InvoicePrefix      string `json:"invoicePrefix" validate:"required"`
	InvoiceStartNumber int    `json:"invoiceStartNumber" validate:"gte=1"`
	InvoiceTerms       string `json:"invoiceTerms"`
	DefaultOrderStatus string `json:"defaultOrderStatus"`
}

// AdminHandler manages posts and settings.
type AdminHandler struct {
	Svc      *Service
	Validate *validator.Validate
}

// ListPosts handles GET /admin/blog, drafts included.
func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := common.ParsePagination(r, 20, 100)
	posts, total, err := h.Svc.ListPosts(r.Context(), false, page, limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	common.Data(w, http.StatusOK, posts)
}

// CreatePost handles POST /admin/blog.
func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in postInput
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		return
	}
	created, err := h.Svc.CreatePost(r.Context(), BlogPost{
		Title:       in.Title,
		Body:        in.Body,
		Image:       in.Image,
		IsPublished: in.IsPublished,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, created)
}

// UpdatePost handles PUT /admin/blog/{id}.
func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var in postInput
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		return
	}
	updated, err := h.Svc.UpdatePost(r.Context(), BlogPost{
		ID:          chi.URLParam(r, "id"),
		Title:       in.Title,
		Body:        in.Body,
		Image:       in.Image,
		IsPublished: in.IsPublished,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, updated)
}

// DeletePost handles DELETE /admin/blog/{id}.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Settings handles GET /admin/settings.
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Svc.GetSettings(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /admin/settings.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in settingsInput
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		return
	}
	saved, err := h.Svc.SaveSettings(r.Context(), Settings(in))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, saved)
}
