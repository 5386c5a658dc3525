// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client backing the group read cache.

Group records are small and read far more often than their status changes,
so they are cached with a TTL and evicted whenever a status write commits.
A cache outage degrades reads to PostgreSQL; it never fails a request.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second
	defaultPool = 10
	defaultIdle = 2
)

// ClientOptions sizes the connection pool. Zero values take the defaults.
type ClientOptions struct {
	PoolSize     int
	MinIdleConns int
}

// Pinger is the subset of the Redis client used for health checks.
type Pinger interface {
	Ping(context stdctx.Context) *redis.StatusCmd
}

/*
NewClient parses a Redis URL, sizes the pool and verifies connectivity.

Parameters:
  - context: Bounds the initial ping
  - redisURL: redis:// or rediss:// connection URL
  - opts: ClientOptions
  - logger: *slog.Logger

Returns:
  - *redis.Client: A connected client; the caller closes it
  - error: On a malformed URL or a failed ping
*/
func NewClient(context stdctx.Context, redisURL string, opts ClientOptions, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = orDefault(opts.PoolSize, defaultPool)
	options.MinIdleConns = min(orDefault(opts.MinIdleConns, defaultIdle), options.PoolSize)
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client answers within pingTimeout.
func Ping(context stdctx.Context, client Pinger) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// Key joins a key prefix and a numeric id, e.g. Key("groups:group:", 7) is "groups:group:7".
func Key(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

func orDefault(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}
