package middleware

import (
	"net/http"

	"sysfinance-server/src/models"
)

// ReadOnlyMiddleware restricts visitor-role users to GET requests. Managers
// and admins pass through unchanged.
func ReadOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value("role").(string)
		if ok && role == models.RoleVisitor && r.Method != http.MethodGet {
			http.Error(w, "visitors have read-only access", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
