package server

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Claims is the identity yielded by the external claims provider. Token
// issuance and parsing live outside this service; the provider is consumed as
// an opaque collaborator.
type Claims struct {
	Subject   string
	Roles     []string
	ExpiresAt time.Time
}

type ClaimsProvider interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

type claimsContextKey struct{}

// ClaimsFromContext returns the validated claims attached by the auth
// middleware, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return c, ok
}

func (s *Server) bearerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Missing bearer token"})
			return
		}

		claims, err := s.claims.Validate(r.Context(), token)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Message: "Invalid bearer token"})
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
