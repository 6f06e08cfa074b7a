package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

type RedisClient struct{ *redis.Client }

func NewRedis(addr, pass string, db int) *RedisClient {
	return &RedisClient{redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (c *RedisClient) Ping(ctx context.Context) error { return c.Client.Ping(ctx).Err() }

// WaitReady pings Redis with exponential backoff until it answers or timeout elapses
func (c *RedisClient) WaitReady(ctx context.Context, timeout time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = timeout
	if err := backoff.Retry(func() error { return c.Ping(ctx) }, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
