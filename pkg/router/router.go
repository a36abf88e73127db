// Package router wraps chi with named routes and prefix groups.
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// Route describes one registered endpoint.
type Route struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux    chi.Router
	mu     sync.RWMutex
	named  map[string]string
	routes []Route
}

type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

func New() *Router {
	return &Router{
		mux:   chi.NewRouter(),
		named: make(map[string]string),
	}
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

// Use appends global middleware. It must be called before any route is added.
func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      normalizePath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodGet, normalizePath(path), name, h, mw)
}

func (r *Router) Post(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodPost, normalizePath(path), name, h, mw)
}

func (r *Router) Put(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodPut, normalizePath(path), name, h, mw)
}

func (r *Router) Patch(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodPatch, normalizePath(path), name, h, mw)
}

func (r *Router) Delete(path, name string, h http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodDelete, normalizePath(path), name, h, mw)
}

// Mount attaches a sub-handler (static files, metrics) under pattern.
func (r *Router) Mount(pattern, name string, h http.Handler) {
	pattern = normalizePath(pattern)
	r.mux.Mount(pattern, h)
	r.record("*", pattern, name)
}

// NotFound sets the handler for unmatched paths.
func (r *Router) NotFound(h http.HandlerFunc) { r.mux.NotFound(h) }

// MethodNotAllowed sets the handler for a known path with the wrong verb.
func (r *Router) MethodNotAllowed(h http.HandlerFunc) { r.mux.MethodNotAllowed(h) }

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.named[name]
	return path, ok
}

// URL fills {param} placeholders of the named route.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}

	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}

	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}

	return path, nil
}

// Routes lists registered endpoints sorted by path then method.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	out := append([]Route(nil), r.routes...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path == out[j].Path {
			return out[i].Method < out[j].Method
		}
		return out[i].Path < out[j].Path
	})
	return out
}

func (r *Router) mount(method, fullPath, name string, h http.HandlerFunc, mw []Middleware) {
	r.mux.Method(method, fullPath, chain(h, mw...))
	r.record(method, fullPath, name)
}

func (r *Router) record(method, fullPath, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes = append(r.routes, Route{Method: method, Path: fullPath, Name: name})
	if name != "" {
		r.named[name] = fullPath
	}
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      g.router,
		prefix:      joinPath(g.prefix, prefix),
		middlewares: append(append([]Middleware(nil), g.middlewares...), middlewares...),
	}
}

func (g *Group) Get(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodGet, path, name, h, mw)
}

func (g *Group) Post(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodPost, path, name, h, mw)
}

func (g *Group) Put(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodPut, path, name, h, mw)
}

func (g *Group) Patch(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodPatch, path, name, h, mw)
}

func (g *Group) Delete(path, name string, h http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodDelete, path, name, h, mw)
}

func (g *Group) mount(method, path, name string, h http.HandlerFunc, mw []Middleware) {
	combined := append(append([]Middleware(nil), g.middlewares...), mw...)
	g.router.mount(method, joinPath(g.prefix, path), name, h, combined)
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.Trim(part, "/")
		if trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	if len(segments) == 0 {
		return "/"
	}

	return "/" + strings.Join(segments, "/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return joinPath(path)
}
