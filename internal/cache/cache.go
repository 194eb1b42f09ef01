// Package cache wraps a redis client with JSON get/set helpers. A nil
// *Client is valid and behaves as an always-miss cache, so the service runs
// unchanged without redis configured.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const opTimeout = 2 * time.Second

type Client struct {
	rc  *redis.Client
	log *zap.Logger
}

// New connects to redis; an empty addr returns nil (cache disabled).
func New(addr, password string, db int, log *zap.Logger) *Client {
	if addr == "" {
		return nil
	}
	rc := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, running without cache", zap.String("addr", addr), zap.Error(err))
		return nil
	}
	return &Client{rc: rc, log: log}
}

// GetJSON reports whether the key was found and decoded into v.
func (c *Client) GetJSON(ctx context.Context, key string, v any) bool {
	if c == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		c.log.Warn("cache entry undecodable, dropping", zap.String("key", key), zap.Error(err))
		c.Delete(ctx, key)
		return false
	}
	return true
}

// SetJSON stores v best-effort; failures are logged, never surfaced.
func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.rc.Set(ctx, key, b, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.rc.Del(ctx, key).Err(); err != nil {
		c.log.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
