package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"moodiary/internal/model"
)

// FeedCache holds the first page of each user's friend feed
type FeedCache interface {
	Get(ctx context.Context, userID string) ([]*model.DiaryEntryView, error)
	Set(ctx context.Context, userID string, entries []*model.DiaryEntryView) error
	Invalidate(ctx context.Context, userIDs ...string) error
}

type feedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a new feed cache
func NewFeedCache(client *redis.Client, ttl time.Duration) FeedCache {
	return &feedCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *feedCache) key(userID string) string {
	return fmt.Sprintf("feed:%s", userID)
}

// Get returns nil without error on a miss.
func (c *feedCache) Get(ctx context.Context, userID string) ([]*model.DiaryEntryView, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []*model.DiaryEntryView
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *feedCache) Set(ctx context.Context, userID string, entries []*model.DiaryEntryView) error {
	if entries == nil {
		entries = []*model.DiaryEntryView{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), data, c.ttl).Err()
}

func (c *feedCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.key(id)
	}
	return c.client.Del(ctx, keys...).Err()
}
