// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/usergroups/internal/platform/redis"
)

var discard = slog.New(slog.NewJSONHandler(io.Discard, nil))

/*
TestNewClient connects to a live server and reports ping failures once it starts failing.
*/
func TestNewClient(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := redis.NewClient(context.Background(), "redis://"+server.Addr()+"/0", redis.ClientOptions{PoolSize: 4}, discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, redis.Ping(context.Background(), client))

	server.SetError("ERR cache unavailable")
	assert.Error(t, redis.Ping(context.Background(), client))
}

/*
TestNewClient_InvalidURL rejects malformed connection strings.
*/
func TestNewClient_InvalidURL(t *testing.T) {
	_, err := redis.NewClient(context.Background(), "not-a-url", redis.ClientOptions{}, discard)

	assert.ErrorContains(t, err, "redis: invalid URL")
}

/*
TestKey formats cache keys from a prefix and an id.
*/
func TestKey(t *testing.T) {
	assert.Equal(t, "groups:group:7", redis.Key("groups:group:", 7))
}
