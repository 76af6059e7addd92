// Package redis keeps the per user/device dispatch counters in Redis.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// Evaler is the part of a Redis client the counters need.
type Evaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...any) (any, error)
}

// Client wraps a go-redis client.
type Client struct {
	c *goredis.Client
}

// Options configures the connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// NewClient connects to Redis and verifies the connection with PING.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	c := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return &Client{c: c}, nil
}

func (g *Client) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	return g.c.Eval(ctx, script, keys, args...).Result()
}

// Ping checks the connection.
func (g *Client) Ping(ctx context.Context) error {
	return g.c.Ping(ctx).Err()
}

// Close closes the connection pool.
func (g *Client) Close() error {
	return g.c.Close()
}
