package router

import (
	"context"
	"net/http"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/biyonik/cinema-ticket-service/internal/controllers"
	"github.com/biyonik/cinema-ticket-service/internal/middleware"
	"github.com/biyonik/cinema-ticket-service/internal/services"
	"github.com/biyonik/cinema-ticket-service/pkg/auth"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
	th "github.com/biyonik/cinema-ticket-service/pkg/testing"
)

var jwtConfig = auth.JWTConfig{
	Secret:         "router-test-secret-with-enough-length",
	Issuer:         "cinema-ticket-service",
	ExpirationTime: time.Hour,
}

type acceptAll struct{}

func (acceptAll) MakePayment(ctx context.Context, accountID int64, amount int) error { return nil }
func (acceptAll) ReserveSeat(ctx context.Context, accountID int64, seats int) error  { return nil }

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) *Router {
	t.Helper()
	auth.HashCost = bcrypt.MinCost

	hash, err := auth.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	guard := auth.NewClientGuard(map[string]string{"boxoffice": hash}, jwtConfig)

	svc := services.NewPurchaseService(acceptAll{}, acceptAll{}, nil, services.DefaultPurchaseRules(), logger.Nop(), nil)

	return Setup(Dependencies{
		Purchases: controllers.NewPurchaseController(svc, logger.Nop()),
		Auth:      controllers.NewAuthController(guard, logger.Nop()),
		Health:    controllers.NewHealthController(nil),
		Verifier:  guard,
		Limiter:   limiter,
		Logger:    logger.Nop(),
	})
}

func issueToken(t *testing.T, r http.Handler) string {
	t.Helper()
	res := th.NewTestRequest("POST", "/api/auth/token").
		WithJSON(map[string]string{"client_id": "boxoffice", "client_secret": "s3cret"}).
		Send(r).
		AssertStatus(t, http.StatusOK)

	data, _ := res.GetJSON(t)["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("No token in %s", res.GetBody())
	}
	return token
}

func TestRouter_PurchaseFlow(t *testing.T) {
	r := newTestRouter(t, nil)
	token := issueToken(t, r)

	th.NewTestRequest("POST", "/api/purchases").
		WithBearer(token).
		WithBody(`{"account_id":1234,"tickets":[{"type":"ADULT","quantity":2},{"type":"INFANT","quantity":1}]}`).
		Send(r).
		AssertStatus(t, http.StatusOK).
		AssertJSONPath(t, "title", "Success")
}

func TestRouter_PurchaseRequiresToken(t *testing.T) {
	r := newTestRouter(t, nil)
	body := `{"account_id":1,"tickets":[{"type":"ADULT","quantity":1}]}`

	th.NewTestRequest("POST", "/api/purchases").WithBody(body).Send(r).
		AssertStatus(t, http.StatusUnauthorized)

	th.NewTestRequest("POST", "/api/purchases").WithBearer("not-a-jwt").WithBody(body).Send(r).
		AssertStatus(t, http.StatusUnauthorized)

	guest, _, err := auth.GenerateToken("guest", "guest", jwtConfig)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	th.NewTestRequest("POST", "/api/purchases").WithBearer(guest).WithBody(body).Send(r).
		AssertStatus(t, http.StatusForbidden)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	r := newTestRouter(t, nil)

	th.NewTestRequest("GET", "/api/unknown").Send(r).
		AssertStatus(t, http.StatusNotFound).
		AssertJSONPath(t, "success", false)

	res := th.NewTestRequest("GET", "/api/purchases").Send(r).
		AssertStatus(t, http.StatusMethodNotAllowed)
	th.AssertEquals(t, "POST", res.Header().Get("Allow"))

	th.NewTestRequest("GET", "/health/").Send(r).
		AssertStatus(t, http.StatusOK).
		AssertJSONPath(t, "status", "ok")
}

func TestRouter_RateLimitsTokenEndpoint(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()

	r := newTestRouter(t, limiter)
	body := `{"client_id":"boxoffice","client_secret":"wrong"}`

	for i := 0; i < 2; i++ {
		th.NewTestRequest("POST", "/api/auth/token").WithBody(body).FromAddr("10.0.0.1:4000").Send(r).
			AssertStatus(t, http.StatusUnauthorized)
	}

	th.NewTestRequest("POST", "/api/auth/token").WithBody(body).FromAddr("10.0.0.1:4000").Send(r).
		AssertStatus(t, http.StatusTooManyRequests)

	// Other callers keep their own budget.
	th.NewTestRequest("POST", "/api/auth/token").WithBody(body).FromAddr("10.0.0.2:4000").Send(r).
		AssertStatus(t, http.StatusUnauthorized)
}

func TestRouter_RecoversPanics(t *testing.T) {
	r := New()
	r.Use(middleware.PanicRecovery(logger.Nop()))
	r.GET("/boom", func(w http.ResponseWriter, req *http.Request) { panic("boom") })

	th.NewTestRequest("GET", "/boom").Send(r).
		AssertStatus(t, http.StatusInternalServerError)
}

func TestRouter_GroupMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := New()
	r.Use(mark("global"))
	g := r.Group("/api/")
	g.Use(mark("group"))
	g.GET("/ping", func(w http.ResponseWriter, req *http.Request) { w.WriteHeader(http.StatusNoContent) }).
		Middleware(mark("route"))

	th.NewTestRequest("GET", "/api/ping").Send(r).AssertStatus(t, http.StatusNoContent)

	th.AssertEquals(t, []string{"global", "group", "route"}, order)
}
