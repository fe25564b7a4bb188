package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/biyonik/cinema-ticket-service/internal/http/response"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

type HealthController struct {
	checks map[string]Checker
}

func NewHealthController(checks map[string]Checker) *HealthController {
	return &HealthController{checks: checks}
}

// Health handles GET /health.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	results := make(map[string]string, len(c.checks))

	for name, check := range c.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	body := map[string]interface{}{"status": status}
	if len(results) > 0 {
		body["checks"] = results
	}
	response.WriteJSON(w, code, body)
}
