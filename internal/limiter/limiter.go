package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SearchLimiter provides Redis-backed fixed-window rate limiting of catalog
// searches, keyed by Telegram user ID. With no Redis client it is a no-op,
// and any Redis failure lets the request through (fail-open).
type SearchLimiter struct {
	rdb       *redis.Client
	maxReqs   int
	windowSec int
}

// New creates a search rate limiter.
func New(rdb *redis.Client, maxReqs, windowSec int) *SearchLimiter {
	return &SearchLimiter{
		rdb:       rdb,
		maxReqs:   maxReqs,
		windowSec: windowSec,
	}
}

// Allow reports whether the user may run another search right now.
func (l *SearchLimiter) Allow(ctx context.Context, userID int64) bool {
	if l == nil || l.rdb == nil || l.maxReqs <= 0 {
		return true
	}

	key := fmt.Sprintf("searchlimit:%d", userID)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true
	}

	// Set expiry on first request in the window
	if count == 1 {
		l.rdb.Expire(ctx, key, time.Duration(l.windowSec)*time.Second)
	}

	return count <= int64(l.maxReqs)
}
