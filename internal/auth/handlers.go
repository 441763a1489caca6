package auth

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/engineers-ent/backend-nirman/internal/common"
)

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Staff Staff  `json:"staff"`
}

// Handler serves the login and session endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
		return
	}
	token, staff, err := h.Svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, loginResponse{Token: token, Staff: staff})
}

// Me handles GET /admin/me, returning the authenticated staff record.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := common.StaffID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated", nil)
		return
	}
	staff, err := h.Svc.Store.GetStaffByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			// valid token for an account that has since been removed
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "account no longer exists", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, staff)
}
