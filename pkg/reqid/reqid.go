// Package reqid assigns every HTTP request an id, echoes it in the
// X-Request-ID response header and keeps it in the request context so log
// lines and error reports can be correlated.
//
//	id := reqid.FromCtx(r.Context())
package reqid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Header carries the id in both directions.
const Header = "X-Request-ID"

// maxLen bounds ids accepted from upstream proxies.
const maxLen = 128

func New() string { return uuid.NewString() }

func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the request id, or "" outside a request.
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware reuses a well-formed X-Request-ID from the caller and mints a
// new id otherwise.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !valid(id) {
				id = New()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}

func valid(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}
