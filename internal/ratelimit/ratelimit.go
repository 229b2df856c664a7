package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Category identifies an external-API endpoint budget.
type Category string

const (
	CategorySpacesLookup Category = "spaces_lookup"
	CategoryUserLookup   Category = "user_lookup"
	CategorySpacesSearch Category = "spaces_search"
	CategoryEmail        Category = "email"
)

// Limit is a request ceiling within a sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Budgets per category, matching the upstream API's documented allowances.
var limits = map[Category]Limit{
	CategorySpacesLookup: {Requests: 25, Window: 15 * time.Minute},
	CategoryUserLookup:   {Requests: 100, Window: 24 * time.Hour},
	CategorySpacesSearch: {Requests: 25, Window: 15 * time.Minute},
	CategoryEmail:        {Requests: 500, Window: time.Minute},
}

// Result reports the outcome of an acquire attempt.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter enforces sliding-window budgets on Redis sorted sets. Because the
// state lives in Redis it limits aggregate volume across every process
// instance sharing the store.
type Limiter struct {
	rdb *redis.Client
}

// NewLimiter creates a Limiter on the given Redis client.
func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

// LimitFor returns the configured ceiling for a category.
func LimitFor(cat Category) (Limit, bool) {
	lim, ok := limits[cat]
	return lim, ok
}

// Acquire attempts to take one request from the category's budget for the
// given identifier. When Allowed is false the caller must not perform the
// guarded call; ResetAt says when the window opens again.
//
// The prune+add+count sequence runs in a single MULTI/EXEC pipeline so
// concurrent callers cannot lose updates between the read and the write.
func (l *Limiter) Acquire(ctx context.Context, cat Category, identifier string) (Result, error) {
	lim, ok := limits[cat]
	if !ok {
		return Result{}, fmt.Errorf("unknown rate limit category %q", cat)
	}

	key := fmt.Sprintf("rate_limit:%s:%s", cat, identifier)
	now := time.Now()
	windowStart := now.Add(-lim.Window)
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()[:8]

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	countCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, lim.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate limit check failed for %s: %w", key, err)
	}

	count := int(countCmd.Val())
	if count > lim.Requests {
		// Over budget: give the slot back and report when the oldest
		// in-window request falls out.
		l.rdb.ZRem(ctx, key, member)
		resetAt := now.Add(lim.Window)
		if oldest, err := l.rdb.ZRangeWithScores(ctx, key, 0, 0).Result(); err == nil && len(oldest) > 0 {
			resetAt = time.Unix(0, int64(oldest[0].Score)).Add(lim.Window)
		}
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	return Result{
		Allowed:   true,
		Remaining: lim.Requests - count,
		ResetAt:   now.Add(lim.Window),
	}, nil
}
