// Package router maps method and path pairs to handlers, with global,
// group and per-route middleware.
package router

import (
	"net/http"
	"strings"
	"sync"

	"github.com/biyonik/cinema-ticket-service/internal/http/response"
	"github.com/biyonik/cinema-ticket-service/internal/middleware"
)

type Router struct {
	routes      []*Route
	middlewares []middleware.Middleware

	once    sync.Once
	handler http.Handler
}

// Route is a single method and path pair.
type Route struct {
	method      string
	path        string
	handler     http.HandlerFunc
	middlewares []middleware.Middleware
}

// RouteGroup shares a path prefix and middlewares between routes.
type RouteGroup struct {
	prefix      string
	middlewares []middleware.Middleware
	router      *Router
}

func New() *Router {
	return &Router{}
}

// Use adds a global middleware. Global middlewares also run for unmatched
// requests.
func (r *Router) Use(m middleware.Middleware) {
	r.middlewares = append(r.middlewares, m)
}

func (r *Router) GET(path string, handler http.HandlerFunc) *Route {
	return r.addRoute(http.MethodGet, path, handler)
}

func (r *Router) POST(path string, handler http.HandlerFunc) *Route {
	return r.addRoute(http.MethodPost, path, handler)
}

func (r *Router) addRoute(method, path string, handler http.HandlerFunc) *Route {
	route := &Route{
		method:  method,
		path:    normalize(path),
		handler: handler,
	}
	r.routes = append(r.routes, route)
	return route
}

// Middleware adds a route-level middleware.
//
//	r.POST("/api/purchases", purchases.Purchase).
//	    Middleware(middleware.Auth(guard)).
//	    Middleware(limiter.Middleware())
func (route *Route) Middleware(m middleware.Middleware) *Route {
	route.middlewares = append(route.middlewares, m)
	return route
}

// Group creates a route group.
//
//	api := r.Group("/api")
//	api.Use(limiter.Middleware())
//	api.POST("/auth/token", auth.Token)
func (r *Router) Group(prefix string) *RouteGroup {
	return &RouteGroup{prefix: strings.TrimRight(prefix, "/"), router: r}
}

// Use adds a middleware to routes registered on the group afterwards.
func (g *RouteGroup) Use(m middleware.Middleware) {
	g.middlewares = append(g.middlewares, m)
}

func (g *RouteGroup) GET(path string, handler http.HandlerFunc) *Route {
	return g.add(http.MethodGet, path, handler)
}

func (g *RouteGroup) POST(path string, handler http.HandlerFunc) *Route {
	return g.add(http.MethodPost, path, handler)
}

func (g *RouteGroup) add(method, path string, handler http.HandlerFunc) *Route {
	route := g.router.addRoute(method, g.prefix+path, handler)
	route.middlewares = append(append([]middleware.Middleware{}, g.middlewares...), route.middlewares...)
	return route
}

// ServeHTTP implements http.Handler. Routes and middlewares must be
// registered before the first request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() {
		r.handler = middleware.Chain(http.HandlerFunc(r.dispatch), r.middlewares...)
	})
	r.handler.ServeHTTP(w, req)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	path := normalize(req.URL.Path)
	var allowed []string

	for _, route := range r.routes {
		if route.path != path {
			continue
		}
		if route.method != req.Method {
			allowed = append(allowed, route.method)
			continue
		}
		middleware.Chain(route.handler, route.middlewares...).ServeHTTP(w, req)
		return
	}

	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		response.MethodNotAllowed(w)
		return
	}
	response.NotFound(w, "")
}

func normalize(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	return "/" + strings.Trim(path, "/")
}
