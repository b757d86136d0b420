package social

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"placement/internal/models"
	"placement/internal/observability"

	"golang.org/x/sync/singleflight"
)

// DefaultPageSize bounds the comment page fetched for a post.
const DefaultPageSize = 25

// CommentLoader reads comment pages through a cache keyed by post id.
// Concurrent misses for the same post share one remote read. A read that started before
// a Refresh of the same post never writes its page to the cache.
type CommentLoader struct {
	store    CommentLister
	cache    CommentCache
	pageSize int
	group    singleflight.Group
	logger   *slog.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewCommentLoader builds a loader. cache may be nil.
func NewCommentLoader(store CommentLister, cache CommentCache, pageSize int) *CommentLoader {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &CommentLoader{
		store:    store,
		cache:    cache,
		pageSize:    pageSize,
		logger:      observability.Logger,
		generations: make(map[string]uint64),
	}
}

// PageSize returns the maximum number of comments returned per post.
func (l *CommentLoader) PageSize() int {
	return l.pageSize
}

// Load returns the newest comments of postID, newest first.
func (l *CommentLoader) Load(ctx context.Context, sess models.Session, postID string) ([]models.Comment, error) {
	if comments, ok := l.lookup(ctx, postID); ok {
		return comments, nil
	}

	gen := l.generation(postID)
	v, err, _ := l.group.Do(postID, func() (any, error) {
		return l.fetch(ctx, sess, postID, gen)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]models.Comment)), nil
}

// Refresh drops the cached page of postID and reads it again from the store.
func (l *CommentLoader) Refresh(ctx context.Context, sess models.Session, postID string) ([]models.Comment, error) {
	l.mu.Lock()
	l.generations[postID]++
	gen := l.generations[postID]
	l.mu.Unlock()
	l.group.Forget(postID)

	if l.cache != nil {
		if err := l.cache.Invalidate(ctx, postID); err != nil {
			l.logger.WarnContext(ctx, "comment cache invalidate failed",
				slog.String("post_id", postID),
				slog.String("error", err.Error()),
			)
		}
	}
	return l.fetch(ctx, sess, postID, gen)
}

func (l *CommentLoader) generation(postID string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generations[postID]
}

func (l *CommentLoader) lookup(ctx context.Context, postID string) ([]models.Comment, bool) {
	if l.cache == nil {
		return nil, false
	}
	comments, found, err := l.cache.Get(ctx, postID)
	switch {
	case err != nil:
		observability.CommentCacheLookups.WithLabelValues("error").Inc()
		l.logger.WarnContext(ctx, "comment cache read failed",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		return nil, false
	case !found:
		observability.CommentCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	default:
		observability.CommentCacheLookups.WithLabelValues("hit").Inc()
		return comments, true
	}
}

// fetch reads the newest page and caches it unless postID was refreshed after gen was taken.
func (l *CommentLoader) fetch(ctx context.Context, sess models.Session, postID string, gen uint64) ([]models.Comment, error) {
	comments, err := l.store.ListComments(ctx, sess, postID, l.pageSize)
	if err != nil {
		return nil, err
	}
	comments = newestFirst(comments, l.pageSize)

	if l.cache != nil && l.generation(postID) == gen {
		if err := l.cache.Set(ctx, postID, comments); err != nil {
			l.logger.WarnContext(ctx, "comment cache write failed",
				slog.String("post_id", postID),
				slog.String("error", err.Error()),
			)
		}
	}
	return comments, nil
}

// newestFirst sorts comments by PostedAt descending, keeping store order for equal
// timestamps, and truncates to limit.
func newestFirst(comments []models.Comment, limit int) []models.Comment {
	out := slices.Clone(comments)
	if out == nil {
		out = []models.Comment{}
	}
	slices.SortStableFunc(out, func(a, b models.Comment) int {
		return b.PostedAt.Compare(a.PostedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
