// Package cache is the read-through cache in front of the public catalog
// reads. Values are JSON-encoded. Without a reachable Redis every lookup is
// a miss and writes are dropped.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/metrics"
)

// Namespace prefixes every key written by this service.
const Namespace = "catalogue"

// Store is a JSON key/value cache.
type Store interface {
	// Get decodes the value at key into dest and reports a hit.
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error
	Driver() string
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) bool { return false }

func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) DeletePattern(context.Context, string) error { return nil }

func (Noop) Driver() string { return "none" }

// Key builds a namespaced key. Free-form parts (search terms) are hashed so
// keys stay short and safe.
//
//	cache.Key("products", "list", slug, cache.Hash(q))
func Key(parts ...string) string {
	return Namespace + ":" + strings.Join(parts, ":")
}

// Hash returns a stable short digest of v's JSON encoding.
func Hash(v interface{}) string {
	data, _ := json.Marshal(v)
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Remember returns the cached value at key or computes, stores and returns
// it. Store failures are logged and never fail the read.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var out T
	if s.Get(ctx, key, &out) {
		metrics.CacheHits.WithLabelValues(s.Driver()).Inc()
		return out, nil
	}
	metrics.CacheMisses.WithLabelValues(s.Driver()).Inc()

	out, err := fn()
	if err != nil {
		return out, err
	}
	if err := s.Set(ctx, key, out, ttl); err != nil {
		logger.WarnContext(ctx, "cache: set failed", "key", key, "error", err)
	}
	return out, nil
}

// FlushCatalog drops every cached catalog read.
func FlushCatalog(ctx context.Context, s Store) error {
	if err := s.DeletePattern(ctx, Namespace+":*"); err != nil {
		return fmt.Errorf("cache: flush: %w", err)
	}
	metrics.CacheFlushes.Inc()
	return nil
}
