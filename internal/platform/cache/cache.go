package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/platform/envutil"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

// MatchCache holds ranked match lists keyed by (user, bundle generation,
// limit), so a model swap naturally invalidates old entries. A nil
// *MatchCache is a no-op: the service works without redis.
type MatchCache struct {
	log *logger.Logger
	rdb *redis.Client
	ttl time.Duration
}

func NewFromEnv(log *logger.Logger) *MatchCache {
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		log.Info("REDIS_ADDR not set, match cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	})
	ttl := time.Duration(envutil.Int("MATCH_CACHE_TTL_SECONDS", 600)) * time.Second
	return &MatchCache{log: log.With("component", "MatchCache"), rdb: rdb, ttl: ttl}
}

func key(userID uuid.UUID, generation string, limit int) string {
	return fmt.Sprintf("matches:%s:%s:%d", userID, generation, limit)
}

func (c *MatchCache) Get(ctx context.Context, userID uuid.UUID, generation string, limit int) ([]types.RankedMatch, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key(userID, generation, limit)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("match cache get failed", "user", userID, "error", err)
		}
		return nil, false
	}
	var matches []types.RankedMatch
	if err := json.Unmarshal(raw, &matches); err != nil {
		return nil, false
	}
	return matches, true
}

func (c *MatchCache) Set(ctx context.Context, userID uuid.UUID, generation string, limit int, matches []types.RankedMatch) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(matches)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(userID, generation, limit), raw, c.ttl).Err(); err != nil {
		c.log.Warn("match cache set failed", "user", userID, "error", err)
	}
}

// Invalidate drops every cached list for one user, used after their
// profile or embedding changes.
func (c *MatchCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, fmt.Sprintf("matches:%s:*", userID), 100).Iterator()
	for iter.Next(ctx) {
		_ = c.rdb.Del(ctx, iter.Val()).Err()
	}
}
