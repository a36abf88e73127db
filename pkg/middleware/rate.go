// Package middleware provides the HTTP middleware shared by the public and
// admin APIs.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/catalogue/pkg/response"
)

// bucket tracks a fixed-window request count for one client.
type bucket struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per client IP in fixed windows.
type Limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{max: max, window: window, buckets: map[string]*bucket{}}
}

// Allow records one request from key and reports whether it fits the budget,
// plus the time left until the window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.count++
	return b.count <= l.max, b.resetAt.Sub(now)
}

// Sweep evicts expired buckets every window until ctx ends.
func (l *Limiter) Sweep(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key, b := range l.buckets {
				if now.After(b.resetAt) {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// RateLimit rejects clients that exceed the limiter's budget with 429.
//
//	limiter := middleware.NewLimiter(120, time.Minute)
//	go limiter.Sweep(ctx)
//	r.Use(middleware.RateLimit(limiter))
func RateLimit(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil || l.max <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ok, wait := l.Allow(clientIP(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
