// Package cache holds the Redis connection factory. Redis is optional in
// this deployment: callers treat a nil client as "caching off" and serve
// everything from the database.
package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bimaplus/bima-api/pkg/config"
)

const pingTimeout = 3 * time.Second

// NewRedis connects and verifies the server answers before handing the
// client out, so a bad address fails at startup rather than on first use.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
