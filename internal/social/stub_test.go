package social

import (
	"context"
	"slices"
	"sync"

	"placement/internal/models"
)

// storeStub is a stub for PostStore and ProfileStore.
type storeStub struct {
	mu    sync.Mutex
	calls map[string]int

	getPostFn         func(context.Context, models.Session, string) (*models.Post, error)
	updatePostLikesFn func(context.Context, models.Session, models.LikeWrite) error
	createCommentFn   func(context.Context, models.Session, models.NewComment) (string, error)
	listCommentsFn    func(context.Context, models.Session, string, int) ([]models.Comment, error)
	getProfileFn      func(context.Context, models.Session, string) (*models.Profile, error)
	updateFollowersFn func(context.Context, models.Session, models.FollowWrite) error
}

func newStoreStub() *storeStub {
	return &storeStub{
		calls: make(map[string]int),
		getPostFn: func(_ context.Context, _ models.Session, id string) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		updatePostLikesFn: func(context.Context, models.Session, models.LikeWrite) error { return nil },
		createCommentFn: func(context.Context, models.Session, models.NewComment) (string, error) {
			return "1", nil
		},
		listCommentsFn: func(context.Context, models.Session, string, int) ([]models.Comment, error) {
			return []models.Comment{}, nil
		},
		getProfileFn: func(_ context.Context, _ models.Session, id string) (*models.Profile, error) {
			return &models.Profile{ID: id}, nil
		},
		updateFollowersFn: func(context.Context, models.Session, models.FollowWrite) error { return nil },
	}
}

func (s *storeStub) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *storeStub) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *storeStub) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *storeStub) GetPost(ctx context.Context, sess models.Session, id string) (*models.Post, error) {
	s.record("GetPost")
	return s.getPostFn(ctx, sess, id)
}

func (s *storeStub) UpdatePostLikes(ctx context.Context, sess models.Session, w models.LikeWrite) error {
	s.record("UpdatePostLikes")
	return s.updatePostLikesFn(ctx, sess, w)
}

func (s *storeStub) CreateComment(ctx context.Context, sess models.Session, in models.NewComment) (string, error) {
	s.record("CreateComment")
	return s.createCommentFn(ctx, sess, in)
}

func (s *storeStub) ListComments(ctx context.Context, sess models.Session, postID string, limit int) ([]models.Comment, error) {
	s.record("ListComments")
	return s.listCommentsFn(ctx, sess, postID, limit)
}

func (s *storeStub) GetProfile(ctx context.Context, sess models.Session, id string) (*models.Profile, error) {
	s.record("GetProfile")
	return s.getProfileFn(ctx, sess, id)
}

func (s *storeStub) UpdateFollowers(ctx context.Context, sess models.Session, w models.FollowWrite) error {
	s.record("UpdateFollowers")
	return s.updateFollowersFn(ctx, sess, w)
}

// blockingLikes makes every like write wait for a reply from the test.
func (s *storeStub) blockingLikes() <-chan chan error {
	calls := make(chan chan error)
	s.updatePostLikesFn = func(context.Context, models.Session, models.LikeWrite) error {
		reply := make(chan error)
		calls <- reply
		return <-reply
	}
	return calls
}

// cacheStub is an in-memory CommentCache that counts invalidations.
type cacheStub struct {
	mu          sync.Mutex
	entries     map[string][]models.Comment
	invalidated map[string]int
	getErr      error
}

func newCacheStub() *cacheStub {
	return &cacheStub{
		entries:     make(map[string][]models.Comment),
		invalidated: make(map[string]int),
	}
}

func (c *cacheStub) Get(_ context.Context, postID string) ([]models.Comment, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	comments, ok := c.entries[postID]
	return slices.Clone(comments), ok, nil
}

func (c *cacheStub) Set(_ context.Context, postID string, comments []models.Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[postID] = comments
	return nil
}

func (c *cacheStub) Invalidate(_ context.Context, postID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, postID)
	c.invalidated[postID]++
	return nil
}

func (c *cacheStub) invalidations(postID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated[postID]
}

func session(userID string) models.Session {
	return models.Session{Token: "jwt-" + userID, UserID: userID}
}
