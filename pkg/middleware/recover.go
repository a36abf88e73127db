package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/response"
)

// Recovery turns a handler panic into a logged 500.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.WithCtx(r.Context()).Error("panic recovered",
				"error", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()
		next.ServeHTTP(w, r)
	})
}
