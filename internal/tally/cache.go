package tally

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	platformredis "univote/internal/platform/redis"
	id "univote/pkg/domain"
)

const cacheKeyPrefix = "univote:tally:"

// RedisCache stores computed tallies in Redis with a short TTL. The TTL is a
// safety net; the ballot coordinator invalidates explicitly on every ledger
// change.
type RedisCache struct {
	client *platformredis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a Redis client as a tally cache.
func NewRedisCache(client *platformredis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(electionID id.ElectionID) string {
	return cacheKeyPrefix + electionID.String()
}

// Get returns the cached tally, or (nil, false, nil) on a miss.
func (c *RedisCache) Get(ctx context.Context, electionID id.ElectionID) (*Result, bool, error) {
	payload, err := c.client.Get(ctx, cacheKey(electionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached tally: %w", err)
	}
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached tally: %w", err)
	}
	return &result, true, nil
}

// Set stores a computed tally.
func (c *RedisCache) Set(ctx context.Context, result *Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode tally: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(result.ElectionID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cached tally: %w", err)
	}
	return nil
}

// Invalidate drops the cached tally for an election.
func (c *RedisCache) Invalidate(ctx context.Context, electionID id.ElectionID) error {
	if err := c.client.Del(ctx, cacheKey(electionID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached tally: %w", err)
	}
	return nil
}
