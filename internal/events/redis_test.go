package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"blog-api/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	q, err := NewRedisQueue(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	return q, mr
}

func sampleEvent(title string) Event {
	return NewEvent(model.OpCreated, model.Article{ID: model.NewArticleID(), Title: title})
}

func TestRedisQueue_Publish(t *testing.T) {
	q, mr := newTestQueue(t)
	ev := sampleEvent("hello")

	require.NoError(t, q.Publish(context.Background(), ev))

	queue, err := mr.List("queue:events")
	require.NoError(t, err)
	require.Len(t, queue, 1)

	var stored Event
	require.NoError(t, json.Unmarshal([]byte(queue[0]), &stored))
	assert.Equal(t, ev.ArticleID, stored.ArticleID)
	assert.Equal(t, model.OpCreated, stored.Op)
	assert.Equal(t, "hello", stored.Title)
}

func TestRedisQueue_PopIsFIFO(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()

	first := sampleEvent("first")
	second := sampleEvent("second")
	require.NoError(t, q.Publish(ctx, first))
	require.NoError(t, q.Publish(ctx, second))

	got, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ArticleID, got.ArticleID)

	got, err = q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ArticleID, got.ArticleID)
}

func TestRedisQueue_PopEmpty(t *testing.T) {
	q, _ := newTestQueue(t)

	start := time.Now()
	_, err := q.Pop(context.Background())

	assert.ErrorIs(t, err, ErrNoEvent)
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond, "pop should block for the poll window")
}

func TestRedisQueue_RecordKeepsLast50(t *testing.T) {
	q, mr := newTestQueue(t)
	ctx := context.Background()

	for i := 0; i < RecentLimit+10; i++ {
		require.NoError(t, q.Record(ctx, sampleEvent(fmt.Sprintf("event %d", i))))
	}

	recent, err := mr.List("list:recent")
	require.NoError(t, err)
	assert.Len(t, recent, RecentLimit)

	evs, err := q.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, evs, 5)
	assert.Equal(t, fmt.Sprintf("event %d", RecentLimit+9), evs[0].Title, "newest first")

	all, err := q.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, RecentLimit)
}

func TestNewRedisQueue_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisQueue(addr)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}
