package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps counters in Redis. Keys expire an hour after their day ends.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(guildID, userID, day string) string {
	return fmt.Sprintf("taunt:quota:%s:%s:%s", guildID, userID, day)
}

// expiresAt returns when the counter for day can be dropped.
func expiresAt(day string) (time.Time, error) {
	start, err := time.ParseInLocation(time.DateOnly, day, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", day, err)
	}
	return start.Add(25 * time.Hour), nil
}

func (s *RedisStore) Count(ctx context.Context, guildID, userID, day string) (int, error) {
	n, err := s.client.Get(ctx, redisKey(guildID, userID, day)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *RedisStore) Increment(ctx context.Context, guildID, userID, day string) (int, error) {
	expiry, err := expiresAt(day)
	if err != nil {
		return 0, err
	}

	key := redisKey(guildID, userID, day)
	var incr *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, expiry)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

// IncrementWithin increments first and hands the answer back with DECR when
// the new value is over limit, so concurrent callers never both pass.
func (s *RedisStore) IncrementWithin(ctx context.Context, guildID, userID, day string, limit int) (int, bool, error) {
	n, err := s.Increment(ctx, guildID, userID, day)
	if err != nil {
		return 0, false, err
	}
	if n <= limit {
		return n, true, nil
	}
	if err := s.client.Decr(ctx, redisKey(guildID, userID, day)).Err(); err != nil {
		return limit, false, fmt.Errorf("release answer: %w", err)
	}
	return limit, false, nil
}
