package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/catalogue/config"
)

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	AllowedOrigins []string // ["*"] allows any origin
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // preflight cache, seconds
}

// CORSFromConfig allows the CORS_ORIGINS origins to call the API with a
// bearer token.
func CORSFromConfig() CORSOptions {
	return CORSOptions{
		AllowedOrigins: config.CORSOrigins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}
}

func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := ""
			for _, o := range opts.AllowedOrigins {
				if o == "*" || strings.EqualFold(o, origin) {
					allowed = o
					break
				}
			}

			if allowed != "" && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
				if allowed != "*" {
					w.Header().Add("Vary", "Origin")
				}
				if opts.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
