package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/biyonik/cinema-ticket-service/internal/http/request"
	"github.com/biyonik/cinema-ticket-service/internal/http/response"
)

// -----------------------------------------------------------------------------
// Rate Limiting Middleware
// -----------------------------------------------------------------------------
// Token bucket per caller: the authenticated client id when there is one,
// the client IP otherwise. Idle buckets are dropped by a background cleanup
// that stops with Stop.
// -----------------------------------------------------------------------------

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	limit       rate.Limit
	burst       int
	idleTimeout time.Duration
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewRateLimiter allows maxRequests per window for every caller, with bursts
// of up to maxRequests.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	ctx, cancel := context.WithCancel(context.Background())

	rl := &RateLimiter{
		visitors:    make(map[string]*visitor),
		limit:       rate.Limit(float64(maxRequests) / window.Seconds()),
		burst:       maxRequests,
		idleTimeout: 2 * window,
		cancel:      cancel,
	}

	rl.wg.Add(1)
	go rl.cleanupLoop(ctx)

	return rl
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	defer rl.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTimeout {
			delete(rl.visitors, key)
		}
	}
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.cancel()
	rl.wg.Wait()
}

// Allow consumes a token for key. It returns the remaining tokens and, when
// refused, how long to wait.
func (rl *RateLimiter) Allow(key string) (bool, int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return true, int(math.Max(0, math.Floor(v.limiter.TokensAt(now)))), 0
	}

	retryAfter := time.Duration(float64(time.Second) / float64(rl.limit))
	return false, 0, retryAfter
}

// Middleware enforces the limit and sets the X-RateLimit-* headers.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := request.New(r)

			key := "ip:" + req.GetIP()
			if clientID := req.ClientID(); clientID != "" {
				key = "client:" + clientID
			}

			allowed, remaining, retryAfter := rl.Allow(key)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				response.TooManyRequests(w, fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", seconds))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
