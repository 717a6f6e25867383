package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// RedisStore shares hit counters between instances through Redis keys that expire with the window.
type RedisStore struct {
	client *redis.Client
	length time.Duration
}

func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     20,
		MinIdleConns: 5,
		DialTimeout:  800 * time.Millisecond,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, length time.Duration) *RedisStore {
	return &RedisStore{client: client, length: length}
}

func (s *RedisStore) Increment(ctx context.Context, key string) (int, time.Time, error) {
	k := keyPrefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("increment %s: %w", k, err)
	}

	now := time.Now()
	remaining := ttl.Val()
	if remaining < 0 {
		// First hit of the window: the key has no expiry yet.
		if err := s.client.PExpire(ctx, k, s.length).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("expire %s: %w", k, err)
		}
		remaining = s.length
	}

	return int(incr.Val()), now.Add(remaining), nil
}
