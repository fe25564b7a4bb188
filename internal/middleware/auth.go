package middleware

import (
	"net/http"

	"github.com/biyonik/cinema-ticket-service/internal/http/request"
	"github.com/biyonik/cinema-ticket-service/internal/http/response"
	"github.com/biyonik/cinema-ticket-service/pkg/auth"
)

// TokenVerifier turns a bearer token into claims. *auth.ClientGuard
// implements it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth requires a valid bearer token and stores its claims on the request
// context.
func Auth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := request.New(r)

			if r.Header.Get("Authorization") == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			token := req.BearerToken()
			if token == "" {
				response.Unauthorized(w, "Invalid Authorization format (expected Bearer token)")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole only lets through clients with one of roles. Use it after Auth.
func RequireRole(roles ...string) Middleware {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := request.New(r).Claims()
			if !ok {
				response.Unauthorized(w, "")
				return
			}
			if !allowed[claims.Role] {
				response.Forbidden(w, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
