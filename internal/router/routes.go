package router

import (
	"github.com/biyonik/cinema-ticket-service/internal/controllers"
	"github.com/biyonik/cinema-ticket-service/internal/middleware"
	"github.com/biyonik/cinema-ticket-service/pkg/auth"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

// Dependencies are the handlers and guards the API is built from.
// Limiter may be nil to disable rate limiting.
type Dependencies struct {
	Purchases *controllers.PurchaseController
	Auth      *controllers.AuthController
	Health    *controllers.HealthController
	Verifier  middleware.TokenVerifier
	Limiter   *middleware.RateLimiter
	Logger    *logger.Logger
}

// Setup registers the API:
//
//	GET  /health
//	POST /api/auth/token
//	POST /api/purchases   (bearer token with the box_office role)
func Setup(deps Dependencies) *Router {
	r := New()
	r.Use(middleware.PanicRecovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	r.GET("/health", deps.Health.Health)

	api := r.Group("/api")

	token := api.POST("/auth/token", deps.Auth.Token)
	if deps.Limiter != nil {
		token.Middleware(deps.Limiter.Middleware())
	}

	purchases := api.POST("/purchases", deps.Purchases.Purchase).
		Middleware(middleware.Auth(deps.Verifier)).
		Middleware(middleware.RequireRole(auth.RoleBoxOffice))
	// After Auth, so purchases are limited per client rather than per IP.
	if deps.Limiter != nil {
		purchases.Middleware(deps.Limiter.Middleware())
	}

	return r
}
