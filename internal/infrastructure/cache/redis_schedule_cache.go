package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/amortization/internal/domain/model"
)

const keyPrefix = "amortization:schedule:"

// RedisScheduleCache stores computed schedules in Redis as JSON.
type RedisScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient initializes a redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisScheduleCache wraps client. A zero ttl keeps entries until evicted.
func NewRedisScheduleCache(client *redis.Client, ttl time.Duration) *RedisScheduleCache {
	return &RedisScheduleCache{client: client, ttl: ttl}
}

func (c *RedisScheduleCache) Get(ctx context.Context, loanID string) ([]model.ScheduleEntry, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+loanID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get schedule %s: %w", loanID, err)
	}

	var records []entryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("decode schedule %s: %w", loanID, err)
	}
	return fromRecords(records), true, nil
}

func (c *RedisScheduleCache) Set(ctx context.Context, loanID string, schedule []model.ScheduleEntry) error {
	raw, err := json.Marshal(toRecords(schedule))
	if err != nil {
		return fmt.Errorf("encode schedule %s: %w", loanID, err)
	}
	if err := c.client.Set(ctx, keyPrefix+loanID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set schedule %s: %w", loanID, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *RedisScheduleCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *RedisScheduleCache) Close() error {
	return c.client.Close()
}
