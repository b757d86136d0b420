package cache

import (
	"context"
	"testing"
	"time"

	"placement/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb, err := NewClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func sampleComments() []models.Comment {
	return []models.Comment{
		{ID: "2", Content: "second", Author: models.NewAuthor("5", "Jane Doe", ""), PostedAt: time.Date(2026, 10, 2, 10, 0, 0, 0, time.UTC)},
		{ID: "1", Content: "first", Author: models.NewAuthor("6", "raj", ""), PostedAt: time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)},
	}
}

func TestNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	_ = rdb.Close()

	_, err = NewClient(context.Background(), "redis://%zz")
	assert.Error(t, err)
}

func TestNewClient_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewClient(context.Background(), addr)
	assert.Error(t, err)
}

func TestJSONHelpers(t *testing.T) {
	_, rdb := newMiniredis(t)
	ctx := context.Background()

	var dest map[string]int
	found, err := GetJSON(ctx, rdb, "missing", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, rdb, "k", map[string]int{"a": 1}, time.Minute))
	found, err = GetJSON(ctx, rdb, "k", &dest)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]int{"a": 1}, dest)

	require.NoError(t, Invalidate(ctx, rdb, "k"))
	found, err = GetJSON(ctx, rdb, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJSONHelpers_NilClient(t *testing.T) {
	ctx := context.Background()
	var dest []string

	found, err := GetJSON(ctx, nil, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(ctx, nil, "k", dest, time.Minute))
	assert.NoError(t, Invalidate(ctx, nil, "k"))
}

func TestRedisCommentCache(t *testing.T) {
	mr, rdb := newMiniredis(t)
	ctx := context.Background()
	c := NewRedisCommentCache(rdb, time.Minute)

	_, found, err := c.Get(ctx, "12")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "12", sampleComments()))
	assert.True(t, mr.Exists("comments:post:12"))
	assert.Equal(t, time.Minute, mr.TTL("comments:post:12"))

	got, found, err := c.Get(ctx, "12")
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Content)
	assert.Equal(t, "JD", got[0].Author.Initials)
	assert.True(t, got[0].PostedAt.Equal(sampleComments()[0].PostedAt))

	mr.FastForward(2 * time.Minute)
	_, found, err = c.Get(ctx, "12")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCommentCache_EmptyListIsAHit(t *testing.T) {
	_, rdb := newMiniredis(t)
	ctx := context.Background()
	c := NewRedisCommentCache(rdb, 0)

	require.NoError(t, c.Set(ctx, "7", nil))
	got, found, err := c.Get(ctx, "7")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, got)
}

func TestRedisCommentCache_Invalidate(t *testing.T) {
	mr, rdb := newMiniredis(t)
	ctx := context.Background()
	c := NewRedisCommentCache(rdb, time.Minute)

	require.NoError(t, c.Set(ctx, "12", sampleComments()))
	require.NoError(t, c.Invalidate(ctx, "12"))
	assert.False(t, mr.Exists("comments:post:12"))
}

func TestRedisCommentCache_ServerDown(t *testing.T) {
	mr, rdb := newMiniredis(t)
	c := NewRedisCommentCache(rdb, time.Minute)
	mr.Close()

	_, _, err := c.Get(context.Background(), "12")
	assert.Error(t, err)
}

func TestMemoryCommentCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCommentCache(time.Minute)
	c.now = func() time.Time { return now }

	_, found, err := c.Get(ctx, "12")
	require.NoError(t, err)
	assert.False(t, found)

	comments := sampleComments()
	require.NoError(t, c.Set(ctx, "12", comments))
	comments[0].Content = "mutated"

	got, found, err := c.Get(ctx, "12")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", got[0].Content, "cache must not alias caller slices")

	now = now.Add(time.Minute)
	_, found, _ = c.Get(ctx, "12")
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "12", comments))
	require.NoError(t, c.Invalidate(ctx, "12"))
	_, found, _ = c.Get(ctx, "12")
	assert.False(t, found)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "comments:post:abc", CommentsKey("abc"))
	assert.Equal(t, "rl:like:user:4", RateLimitKey("like", "user:4"))
}
