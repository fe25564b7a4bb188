package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/biyonik/cinema-ticket-service/internal/http/response"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

// PanicRecovery turns a handler panic into a JSON 500 response.
func PanicRecovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.Error("Handler panicked",
						"panic", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					response.ServerError(w, "")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
