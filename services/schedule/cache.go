package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"consultbook/models"
	"consultbook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dayCachePrefix = "schedule:"

// Cache is the Redis-backed read cache of resolved schedule days. Entries
// carry a short TTL; date-scoped writes invalidate their exact key and
// pattern-level writes drop the expert's whole keyspace.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a schedule cache with the given entry TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func dayKey(expertID, date string) string {
	return fmt.Sprintf("%s%s:%s", dayCachePrefix, expertID, date)
}

// GetDay returns the cached resolved day, if present. Cache failures are
// logged and treated as misses.
func (c *Cache) GetDay(ctx context.Context, expertID, date string) (*models.ScheduleDay, bool) {
	data, err := c.client.Get(ctx, dayKey(expertID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("schedule cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var day models.ScheduleDay
	if err := json.Unmarshal(data, &day); err != nil {
		return nil, false
	}
	return &day, true
}

// SetDay stores the resolved day. Best effort: a failed write only costs a
// recomputation.
func (c *Cache) SetDay(ctx context.Context, expertID, date string, day *models.ScheduleDay) {
	data, err := json.Marshal(day)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, dayKey(expertID, date), data, c.ttl).Err(); err != nil {
		utils.GetLogger().Warn("schedule cache write failed", zap.Error(err))
	}
}

// InvalidateDay drops the cached view of one (expert, date).
func (c *Cache) InvalidateDay(ctx context.Context, expertID, date string) {
	if err := c.client.Del(ctx, dayKey(expertID, date)).Err(); err != nil {
		utils.GetLogger().Warn("schedule cache invalidation failed", zap.Error(err))
	}
}

// InvalidateExpert drops every cached day of one expert. Used after pattern
// writes, which can affect an open-ended set of dates.
func (c *Cache) InvalidateExpert(ctx context.Context, expertID string) {
	pattern := dayCachePrefix + expertID + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		utils.GetLogger().Warn("schedule cache scan failed", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			utils.GetLogger().Warn("schedule cache invalidation failed", zap.Error(err))
		}
	}
}
