package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey  = "queue:events"
	recentKey = "list:recent"

	// RecentLimit is how many events the recent list keeps.
	RecentLimit = 50
)

// ErrNoEvent is returned by Pop when nothing arrived within the poll window.
var ErrNoEvent = errors.New("no event available")

// RedisQueue carries events through a Redis list and keeps the most recent
// processed ones in a second list.
type RedisQueue struct {
	rdb   *redis.Client
	block time.Duration
}

// NewRedisQueue connects to Redis and checks the connection.
func NewRedisQueue(addr string) (*RedisQueue, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisQueue{rdb: rdb, block: time.Second}, nil
}

func (q *RedisQueue) Close() error {
	return q.rdb.Close()
}

// Publish pushes ev onto the pending queue.
func (q *RedisQueue) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, queueKey, data).Err()
}

// Pop waits for the next pending event (Blocking).
// The wait is bounded so callers get a chance to observe cancellation;
// ErrNoEvent signals an empty poll.
func (q *RedisQueue) Pop(ctx context.Context) (Event, error) {
	result, err := q.rdb.BRPop(ctx, q.block, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return Event{}, ErrNoEvent
	} else if err != nil {
		return Event{}, err
	}

	var ev Event
	if err := json.Unmarshal([]byte(result[1]), &ev); err != nil {
		return Event{}, fmt.Errorf("decoding event: %w", err)
	}
	return ev, nil
}

// Record adds a processed event to the recent list.
func (q *RedisQueue) Record(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pipe := q.rdb.Pipeline()
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, RecentLimit-1) // Keep only last 50 items
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to limit processed events, newest first.
func (q *RedisQueue) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > RecentLimit {
		limit = RecentLimit
	}
	raw, err := q.rdb.LRange(ctx, recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	evs := make([]Event, 0, len(raw))
	for _, item := range raw {
		var ev Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		evs = append(evs, ev)
	}
	return evs, nil
}
