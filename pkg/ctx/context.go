// Package ctx provides the request context handlers are written against.
//
//	func (h *CategoryController) Show(c *ctx.Context) {
//	    cat, err := h.svc.GetBySlug(c.Context(), c.Param("slug"))
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(cat)
//	}
//
//	router.Get("/categories/{slug}", "categories.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/auth"
	"github.com/shashiranjanraj/catalogue/pkg/bind"
	"github.com/shashiranjanraj/catalogue/pkg/orm"
	"github.com/shashiranjanraj/catalogue/pkg/response"
)

type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to net/http.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// UUIDParam parses a path parameter as a UUID. On failure it writes a 422
// and returns ok=false.
func (c *Context) UUIDParam(key string) (id uuid.UUID, ok bool) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		c.ValidationError(map[string]string{key: "must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// ClientIP returns the caller address, honouring X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

func (c *Context) Context() context.Context { return c.R.Context() }

// Actor returns the authenticated admin id, or "" on public routes.
func (c *Context) Actor() string {
	if a, ok := auth.ActorFrom(c.R.Context()); ok {
		return a.ID
	}
	return ""
}

// PageQuery reads page, limit, search and sort_by. Missing values take the
// configured defaults and limit is capped at PAGE_MAX_LIMIT. Malformed
// numbers are passed on as 0 and listed in Malformed so the list builder
// rejects them.
func (c *Context) PageQuery() orm.Query {
	q := orm.Query{
		Search: strings.TrimSpace(c.Query("search")),
		SortBy: strings.TrimSpace(c.Query("sort_by")),
	}
	var ok bool
	if q.Page, ok = intQuery(c.Query("page"), 1); !ok {
		q.Malformed = append(q.Malformed, "page")
	}
	if q.Limit, ok = intQuery(c.Query("limit"), config.PageDefaultLimit()); !ok {
		q.Malformed = append(q.Malformed, "limit")
	}
	q.Limit = min(q.Limit, config.PageMaxLimit())
	return q
}

func intQuery(raw string, def int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// BindJSON decodes and validates the body into dest. It writes a 400 or 422
// and returns false when the body is unusable.
//
//	var in requests.CreateCategory
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

func (c *Context) Success(data any) {
	response.Success(c.W, data)
}

func (c *Context) Created(data any) {
	response.Created(c.W, data)
}

func (c *Context) NoContent() {
	c.W.WriteHeader(http.StatusNoContent)
}

func (c *Context) Error(code int, message string) {
	response.Error(c.W, code, message)
}

func (c *Context) ValidationError(errs map[string]string) {
	response.ValidationError(c.W, errs)
}

// Fail writes err using its taxonomy status.
func (c *Context) Fail(err error) {
	response.Fail(c.W, c.R, err)
}

func (c *Context) Unauthorized(message ...string) {
	c.Error(http.StatusUnauthorized, first(message, "Unauthorized"))
}

func (c *Context) Forbidden(message ...string) {
	c.Error(http.StatusForbidden, first(message, "Forbidden"))
}

func (c *Context) NotFound(message ...string) {
	c.Error(http.StatusNotFound, first(message, "Not found"))
}

// Page writes a paginated result.
func Page[T any](c *Context, page orm.Result[T]) {
	response.Paginated(c.W, page)
}

func first(msgs []string, def string) string {
	if len(msgs) > 0 && msgs[0] != "" {
		return msgs[0]
	}
	return def
}
