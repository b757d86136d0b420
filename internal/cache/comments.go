package cache

import (
	"context"
	"sync"
	"time"

	"placement/internal/models"
	"placement/internal/observability"

	"github.com/redis/go-redis/v9"
)

// RedisCommentCache stores the newest page of a post's comments in Redis.
type RedisCommentCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCommentCache returns a comment cache backed by rdb. A zero ttl uses CommentsTTL.
func NewRedisCommentCache(rdb *redis.Client, ttl time.Duration) *RedisCommentCache {
	if ttl <= 0 {
		ttl = CommentsTTL
	}
	return &RedisCommentCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCommentCache) Get(ctx context.Context, postID string) (comments []models.Comment, found bool, err error) {
	ctx, span := observability.StartCacheSpan(ctx, "GET")
	defer func() { observability.EndSpan(span, err) }()

	found, err = GetJSON(ctx, c.rdb, CommentsKey(postID), &comments)
	return comments, found, err
}

func (c *RedisCommentCache) Set(ctx context.Context, postID string, comments []models.Comment) (err error) {
	ctx, span := observability.StartCacheSpan(ctx, "SET")
	defer func() { observability.EndSpan(span, err) }()

	if comments == nil {
		comments = []models.Comment{}
	}
	return SetJSON(ctx, c.rdb, CommentsKey(postID), comments, c.ttl)
}

func (c *RedisCommentCache) Invalidate(ctx context.Context, postID string) (err error) {
	ctx, span := observability.StartCacheSpan(ctx, "DEL")
	defer func() { observability.EndSpan(span, err) }()

	return Invalidate(ctx, c.rdb, CommentsKey(postID))
}

type memoryEntry struct {
	comments  []models.Comment
	expiresAt time.Time
}

// MemoryCommentCache is an in-process comment cache used when Redis is unavailable.
type MemoryCommentCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCommentCache returns an empty in-process cache. A zero ttl uses CommentsTTL.
func NewMemoryCommentCache(ttl time.Duration) *MemoryCommentCache {
	if ttl <= 0 {
		ttl = CommentsTTL
	}
	return &MemoryCommentCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCommentCache) Get(_ context.Context, postID string) ([]models.Comment, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[postID]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, postID)
		return nil, false, nil
	}
	return append([]models.Comment(nil), entry.comments...), true, nil
}

func (c *MemoryCommentCache) Set(_ context.Context, postID string, comments []models.Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[postID] = memoryEntry{
		comments:  append([]models.Comment{}, comments...),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

func (c *MemoryCommentCache) Invalidate(_ context.Context, postID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, postID)
	return nil
}
