package middleware

import (
	"net/http"

	"github.com/travlrgetaways/travlr/pkg/response"
)

// Admin gates catalog mutations behind the isAdmin claim. Must run after
// Auth in the chain.
func Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil || !claims.IsAdmin {
			response.Message(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
