package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/travlrgetaways/travlr/pkg/auth"
	"github.com/travlrgetaways/travlr/pkg/response"
)

type claimsKey struct{}

// Auth requires a Bearer token. A missing header is a 401, a token that
// fails verification or has expired is a 403. Verified claims go into the
// request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			response.Message(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Message(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the verified claims set by Auth, or nil.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// UserIDFromCtx is a shortcut for the authenticated user's id.
func UserIDFromCtx(ctx context.Context) string {
	if claims := ClaimsFromCtx(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
