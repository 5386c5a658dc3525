// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/usergroups/internal/platform/constants"
	redisstore "github.com/taibuivan/usergroups/internal/platform/redis"
)

// RedisCache implements [Cache] with JSON values under "groups:group:<id>".
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache constructs a [RedisCache]. A zero ttl keeps entries until evicted.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(id int64) string {
	return redisstore.Key(constants.RedisPrefixGroup, id)
}

// Get returns the cached group, or (nil, nil) on a miss.
func (cache *RedisCache) Get(context context.Context, id int64) (*Group, error) {
	payload, err := cache.client.Get(context, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	group := &Group{}
	if err := json.Unmarshal(payload, group); err != nil {
		return nil, err
	}

	return group, nil
}

// Set stores the group until the TTL elapses or it is evicted.
func (cache *RedisCache) Set(context context.Context, group *Group) error {
	payload, err := json.Marshal(group)
	if err != nil {
		return err
	}
	return cache.client.Set(context, cacheKey(group.ID), payload, cache.ttl).Err()
}

// Delete evicts the group entry. Missing keys are not an error.
func (cache *RedisCache) Delete(context context.Context, id int64) error {
	return cache.client.Del(context, cacheKey(id)).Err()
}
