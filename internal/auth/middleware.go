package auth

import (
	"net/http"
	"strings"

	"github.com/engineers-ent/backend-nirman/internal/common"
)

// RequireAuth rejects requests without a valid bearer token and attaches the
// staff identity to the context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
			return
		}
		claims, err := s.ParseToken(raw)
		if err != nil {
			common.WriteError(w, err)
			return
		}
		ctx := common.WithStaff(r.Context(), claims.StaffID, claims.Name, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates routes to admin-role staff. Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := common.StaffRole(r.Context())
		if !ok || role != RoleAdmin {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "admin role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
