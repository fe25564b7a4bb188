// -----------------------------------------------------------------------------
// Middleware Package
// -----------------------------------------------------------------------------
// A Middleware wraps an http.Handler. Cross-cutting concerns (access logs,
// panic recovery, authentication, rate limiting) are built this way and
// composed per route with Chain.
// -----------------------------------------------------------------------------

package middleware

import (
	"net/http"
	"time"

	"github.com/biyonik/cinema-ticket-service/internal/http/request"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

type Middleware func(next http.Handler) http.Handler

// Chain applies middlewares so that the first one is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Logging writes one access log entry per request.
func Logging(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			log.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"bytes", rec.bytes,
				"ip", request.New(r).GetIP(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
