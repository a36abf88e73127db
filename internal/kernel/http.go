package kernel

import (
	"net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/catalogue/app/routes"
	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/metrics"
	"github.com/shashiranjanraj/catalogue/pkg/middleware"
	"github.com/shashiranjanraj/catalogue/pkg/reqid"
	"github.com/shashiranjanraj/catalogue/pkg/response"
	"github.com/shashiranjanraj/catalogue/pkg/router"
	"github.com/shashiranjanraj/catalogue/pkg/storage"
)

// Router builds the full route table behind the global middleware stack.
//
// Order, outermost first: metrics (total latency), recovery, request id,
// access log, CORS, rate limit, body cap.
func (k *Kernel) Router() (*router.Router, error) {
	if k.Limiter == nil {
		k.Limiter = middleware.NewLimiter(config.RateLimitPerMinute(), time.Minute)
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.CORSFromConfig()),
		middleware.RateLimit(k.Limiter),
		middleware.MaxBody(config.MaxBodyBytes()),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	k.mountStorage(r)

	err := routes.RegisterAPI(r, routes.Deps{
		Catalog: k.Catalog,
		Tokens:  k.Tokens,
		Health:  k.Ping,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// mountStorage serves the local disk under the path of its public URL, so
// uploads work without a separate web server in development.
func (k *Kernel) mountStorage(r *router.Router) {
	disk, err := k.Disks.Use("local")
	if err != nil {
		return
	}
	local, ok := disk.(*storage.LocalDisk)
	if !ok {
		return
	}
	prefix := urlPath(local.BaseURL())
	if prefix == "" || prefix == "/" || strings.HasPrefix(prefix, "/api") {
		return
	}
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(local.Root())))
	r.Mount(prefix, "storage", noListing(files))
}

// urlPath returns the path part of an absolute URL, or raw when it is
// already a path.
func urlPath(raw string) string {
	if i := strings.Index(raw, "://"); i >= 0 {
		rest := raw[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			return strings.TrimRight(rest[j:], "/")
		}
		return ""
	}
	return strings.TrimRight(raw, "/")
}

func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			response.NotFound(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
