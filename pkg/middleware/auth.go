package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/catalogue/pkg/auth"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/response"
)

// Authenticate requires a valid bearer token and stores the caller as an
// auth.Actor in the request context.
//
//	admin := api.Group("/admin", middleware.Authenticate(tokens))
func Authenticate(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearer(r.Header.Get("Authorization"))
			if raw == "" {
				response.Unauthorized(w)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("rejected token", "error", err)
				response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := auth.WithActor(r.Context(), auth.Actor{ID: claims.Subject, Role: claims.Role})
			ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("actor", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
