package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a Redis-backed cache with logical freshness. Entries are written
// with a physical TTL much longer than their logical one, so an expired value
// can still be served as a stale fallback when the authoritative source is
// unavailable.
type Cache struct {
	rdb       *redis.Client
	retention time.Duration
}

// envelope wraps a cached payload with its write time and logical TTL.
type envelope struct {
	CachedAt   time.Time       `json:"cached_at"`
	TTLSeconds int64           `json:"ttl_seconds"`
	Payload    json.RawMessage `json:"payload"`
}

// New creates a Cache. Retention bounds how long stale entries survive.
func New(rdb *redis.Client, retention time.Duration) *Cache {
	return &Cache{rdb: rdb, retention: retention}
}

// Set stores v under key with the given logical TTL.
func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry %s: %w", key, err)
	}
	env := envelope{
		CachedAt:   time.Now().UTC(),
		TTLSeconds: int64(ttl.Seconds()),
		Payload:    payload,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal cache envelope %s: %w", key, err)
	}

	retention := c.retention
	if ttl > retention {
		retention = ttl
	}
	if err := c.rdb.Set(ctx, key, b, retention).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

// GetFresh unmarshals the entry into v only while its logical TTL holds.
// The second return is false on miss or when the entry has gone stale.
func (c *Cache) GetFresh(ctx context.Context, key string, v any) (bool, error) {
	env, ok, err := c.get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	expiry := env.CachedAt.Add(time.Duration(env.TTLSeconds) * time.Second)
	if time.Now().After(expiry) {
		return false, nil
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache entry %s: %w", key, err)
	}
	return true, nil
}

// GetStale unmarshals the entry into v regardless of logical freshness.
func (c *Cache) GetStale(ctx context.Context, key string, v any) (bool, error) {
	env, ok, err := c.get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache entry %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) get(ctx context.Context, key string) (*envelope, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cache envelope %s: %w", key, err)
	}
	return &env, true, nil
}

// Delete removes entries. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return nil
}

// AddToSet adds a member to a Redis SET.
func (c *Cache) AddToSet(ctx context.Context, key, member string) error {
	if err := c.rdb.SAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("failed to add %s to set %s: %w", member, key, err)
	}
	return nil
}

// SetMembers returns all members of a Redis SET.
func (c *Cache) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read set %s: %w", key, err)
	}
	return members, nil
}
