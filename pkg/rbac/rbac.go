// Package rbac restricts admin routes by role.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/catalogue/pkg/auth"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/response"
)

// HasRole allows the request only when the authenticated actor holds one of
// roles. middleware.Authenticate must run first.
//
//	users := admin.Group("/users", rbac.HasRole(models.RoleAdmin))
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFrom(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allowed[actor.Role] {
				logger.WithCtx(r.Context()).Warn("role denied", "role", actor.Role, "path", r.URL.Path)
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
