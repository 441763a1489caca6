package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/engineers-ent/backend-nirman/internal/common"
)

func TestMeWithDeletedAccountReturnsUnauthorized(t *testing.T) {
	svc, _ := testAuthService(t)
	h := &Handler{Svc: svc}

	// the token was issued before the staff row was removed
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
	req = req.WithContext(common.WithStaff(req.Context(), "s-deleted", "Ghost", RoleStaff))
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var body struct {
		Error common.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestMeReturnsAuthenticatedStaff(t *testing.T) {
	svc, _ := testAuthService(t)
	h := &Handler{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
	req = req.WithContext(common.WithStaff(req.Context(), "s1", "Admin", RoleAdmin))
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Data Staff `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "admin@example.com", body.Data.Email)
}
