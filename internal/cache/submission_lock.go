package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmissionLock marks that a user has started today's questionnaire submission
type SubmissionLock interface {
	// Acquire reports false when the lock for (user, day) is already held.
	Acquire(ctx context.Context, userID, day string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, userID, day string) error
}

type submissionLock struct {
	client *redis.Client
}

// NewSubmissionLock creates a new submission lock
func NewSubmissionLock(client *redis.Client) SubmissionLock {
	return &submissionLock{client: client}
}

func (l *submissionLock) key(userID, day string) string {
	return fmt.Sprintf("assessment:%s:%s", userID, day)
}

func (l *submissionLock) Acquire(ctx context.Context, userID, day string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.key(userID, day), time.Now().Unix(), ttl).Result()
}

func (l *submissionLock) Release(ctx context.Context, userID, day string) error {
	return l.client.Del(ctx, l.key(userID, day)).Err()
}
