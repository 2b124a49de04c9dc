package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"moodiary/internal/model"
)

// MoodStatsCache holds computed month summaries per user
type MoodStatsCache interface {
	Get(ctx context.Context, userID, month string) (*model.MoodStats, error)
	Set(ctx context.Context, userID string, stats *model.MoodStats) error
	Invalidate(ctx context.Context, userID string, months ...string) error
}

type moodStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMoodStatsCache creates a new mood stats cache
func NewMoodStatsCache(client *redis.Client) MoodStatsCache {
	return &moodStatsCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

// Key helpers
func (c *moodStatsCache) key(userID, month string) string {
	return fmt.Sprintf("user:%s:stats:%s", userID, month)
}

func (c *moodStatsCache) Get(ctx context.Context, userID, month string) (*model.MoodStats, error) {
	data, err := c.client.Get(ctx, c.key(userID, month)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats model.MoodStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *moodStatsCache) Set(ctx context.Context, userID string, stats *model.MoodStats) error {
	stats.UpdatedAt = time.Now()
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID, stats.Month), data, c.ttl).Err()
}

func (c *moodStatsCache) Invalidate(ctx context.Context, userID string, months ...string) error {
	if len(months) == 0 {
		return nil
	}
	keys := make([]string, len(months))
	for i, m := range months {
		keys[i] = c.key(userID, m)
	}
	return c.client.Del(ctx, keys...).Err()
}
