package social

import (
	"context"
	"errors"
	"time"

	"placement/internal/models"
)

// Engine creates per-post and per-profile views bound to the remote stores.
type Engine struct {
	posts    PostStore
	profiles ProfileStore
	loader   *CommentLoader
	now      func() time.Time
}

// NewEngine builds an Engine. loader defaults to an uncached loader over posts.
func NewEngine(posts PostStore, profiles ProfileStore, loader *CommentLoader) *Engine {
	if loader == nil {
		loader = NewCommentLoader(posts, nil, DefaultPageSize)
	}
	return &Engine{
		posts:    posts,
		profiles: profiles,
		loader:   loader,
		now:      time.Now,
	}
}

// Comments returns the shared comment loader.
func (e *Engine) Comments() *CommentLoader {
	return e.loader
}

// NewPost returns a view over postID starting from state.
func (e *Engine) NewPost(postID string, state models.SocialActionState) *Post {
	return &Post{
		id:     postID,
		engine: e,
		state:  state.Clone(),
		likes:  newReconciler("like", postID),
	}
}

// OpenPost fetches postID and returns a view of it for the session's user.
func (e *Engine) OpenPost(ctx context.Context, sess models.Session, postID string) (*Post, error) {
	if postID == "" {
		return nil, models.NewValidationError("post id is required")
	}
	post, err := e.posts.GetPost(ctx, sess, postID)
	if err != nil {
		return nil, err
	}
	return e.NewPost(post.ID, post.StateFor(sess.UserID)), nil
}

// NewProfile returns a view over profileID starting from state.
func (e *Engine) NewProfile(profileID string, state models.FollowState) *Profile {
	return &Profile{
		id:      profileID,
		engine:  e,
		state:   state.Clone(),
		follows: newReconciler("follow", profileID),
	}
}

// OpenProfile fetches profileID and returns a view of it for the session's user.
func (e *Engine) OpenProfile(ctx context.Context, sess models.Session, profileID string) (*Profile, error) {
	if profileID == "" {
		return nil, models.NewValidationError("profile id is required")
	}
	if e.profiles == nil {
		return nil, models.NewInternalError(errors.New("profile store not configured"))
	}
	profile, err := e.profiles.GetProfile(ctx, sess, profileID)
	if err != nil {
		return nil, err
	}
	return e.NewProfile(profile.ID, profile.FollowStateFor(sess.UserID)), nil
}

// requireActor checks that sess can perform a write on behalf of a user.
func requireActor(sess models.Session) error {
	if !sess.Authenticated() {
		return models.NewUnauthenticatedError("sign in required")
	}
	if sess.UserID == "" {
		return models.NewValidationError("current user is required")
	}
	return nil
}
