package middleware

import (
	"net/http"

	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
)

// AdminOnly rejects requests whose token does not carry the admin role.
// The whole control surface is operator-facing, so most routes use this.
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Role != domain.RoleAdmin {
				http.Error(w, "Admin role required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
