package middleware

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/reqid"
)

// statusWriter captures the status code and body size.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Logger logs one line per request and stores a request-scoped logger,
// tagged with request_id, for logger.WithCtx.
//
// reqid.Middleware must run first.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		level := logger.LevelFor(sw.status)
		reqLog.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"duration", time.Since(start).String(),
			"ip", clientIP(r),
		)
	})
}
