// Package social implements the optimistic social-action engine: likes, follows, comment
// submission and the lazily loaded comment panel of a rendered post.
package social

import (
	"context"

	"placement/internal/models"
)

// CommentLister reads the newest comments of a post.
type CommentLister interface {
	ListComments(ctx context.Context, sess models.Session, postID string, limit int) ([]models.Comment, error)
}

// PostStore is the remote store for post engagement.
type PostStore interface {
	CommentLister
	GetPost(ctx context.Context, sess models.Session, postID string) (*models.Post, error)
	UpdatePostLikes(ctx context.Context, sess models.Session, w models.LikeWrite) error
	CreateComment(ctx context.Context, sess models.Session, in models.NewComment) (string, error)
}

// ProfileStore is the remote store for follow relations.
type ProfileStore interface {
	GetProfile(ctx context.Context, sess models.Session, profileID string) (*models.Profile, error)
	UpdateFollowers(ctx context.Context, sess models.Session, w models.FollowWrite) error
}

// CommentCache caches the newest page of comments per post.
type CommentCache interface {
	Get(ctx context.Context, postID string) ([]models.Comment, bool, error)
	Set(ctx context.Context, postID string, comments []models.Comment) error
	Invalidate(ctx context.Context, postID string) error
}
