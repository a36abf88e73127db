package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/catalogue/config"
)

// Redis is a Store backed by go-redis.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis { return &Redis{rdb: rdb} }

// Connect dials REDIS_ADDR and verifies it with a ping. When Redis is not
// reachable it returns Noop together with the error so the caller can log
// and carry on uncached.
func Connect(ctx context.Context) (Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return Noop{}, fmt.Errorf("cache: redis ping: %w", err)
	}
	return NewRedis(rdb), nil
}

func (r *Redis) Client() *redis.Client { return r.rdb }

func (r *Redis) Get(ctx context.Context, key string, dest interface{}) bool {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key, data, ttl).Err()
}

// DeletePattern walks the keyspace with SCAN and deletes matches in batches.
func (r *Redis) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *Redis) Driver() string { return "redis" }

func (r *Redis) Close() error { return r.rdb.Close() }
