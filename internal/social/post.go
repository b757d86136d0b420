package social

import (
	"context"
	"strings"
	"sync"

	"placement/internal/models"
	"placement/internal/observability"
)

// LikeOutcome is the reconciled result of a like toggle.
type LikeOutcome = Outcome[models.SocialActionState]

// Post is the engagement view of one rendered post. It is safe for concurrent use.
type Post struct {
	id     string
	engine *Engine

	mu     sync.Mutex
	state  models.SocialActionState
	likes  *reconciler
	closed bool

	panel   PanelState
	loaded  bool
	stale   bool
	loadSeq uint64
}

// ID returns the post id.
func (p *Post) ID() string {
	return p.id
}

// State returns a copy of the current state.
func (p *Post) State() models.SocialActionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone()
}

// Close detaches the view. Responses arriving afterwards are discarded.
func (p *Post) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.likes.closed = true
}

// ToggleLike applies a like toggle immediately and persists it in the background.
// The returned state is the optimistic one. The channel yields exactly one outcome: if the
// write fails while it is still the latest for this post, the like fields are restored to
// the snapshot taken before this toggle.
func (p *Post) ToggleLike(ctx context.Context, sess models.Session) (models.SocialActionState, <-chan LikeOutcome, error) {
	if err := requireActor(sess); err != nil {
		return p.State(), nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return models.SocialActionState{}, nil, ErrViewClosed
	}
	snapshot := p.state.Clone()
	next, write := ToggleLike(p.state, sess.UserID)
	write.PostID = p.id
	p.state = next
	seq := p.likes.issue(ctx)
	view := p.state.Clone()
	p.mu.Unlock()

	pending := dispatch(ctx,
		func(ctx context.Context) error {
			return p.engine.posts.UpdatePostLikes(ctx, sess, write)
		},
		func(err error) LikeOutcome {
			p.mu.Lock()
			defer p.mu.Unlock()

			result := p.likes.settle(ctx, seq, err)
			if result == observability.OutcomeRolledBack {
				p.state.IsLiked = snapshot.IsLiked
				p.state.LikeCount = snapshot.LikeCount
				p.state.LikedBy = snapshot.LikedBy
			}
			return LikeOutcome{Seq: seq, State: p.state.Clone(), Err: err, Result: result}
		},
	)
	return view, pending, nil
}

// SubmitComment persists a comment and refreshes the comment list.
//
// Comments are confirmed-only: nothing is shown before the store acknowledges the write.
// On success the comment count advances by one, the cached page is invalidated once and
// the newest page replaces the loaded comments. If that refresh fails the count is kept,
// the panel becomes stale and the refresh error is returned. If the write itself fails the
// view is left untouched.
func (p *Post) SubmitComment(ctx context.Context, sess models.Session, content string) ([]models.Comment, error) {
	log := observability.NewActionLogger("comment")

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, p.rejectComment(models.NewValidationError("comment content is required"))
	}
	if err := requireActor(sess); err != nil {
		return nil, p.rejectComment(err)
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrViewClosed
	}

	_, err := p.engine.posts.CreateComment(ctx, sess, models.NewComment{
		PostID:       p.id,
		AuthorUserID: sess.UserID,
		Content:      content,
		SentAt:       p.engine.now(),
	})
	if err != nil {
		log.LogError(ctx, p.id, err)
		return nil, p.rejectComment(err)
	}
	observability.CommentSubmissions.WithLabelValues("created").Inc()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrViewClosed
	}
	p.state.CommentCount++
	p.panel = PanelExpanding
	p.loadSeq++
	seq := p.loadSeq
	p.mu.Unlock()

	comments, err := p.engine.loader.Refresh(ctx, sess, p.id)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || seq != p.loadSeq {
		return comments, err
	}
	if err != nil {
		log.LogError(ctx, p.id, err)
		p.stale = true
		p.panel = PanelExpandedStale
		return nil, err
	}
	p.state.Comments = comments
	p.loaded = true
	p.stale = false
	p.panel = PanelExpanded
	return append([]models.Comment(nil), comments...), nil
}

func (p *Post) rejectComment(err error) error {
	observability.CommentSubmissions.WithLabelValues(models.CodeOf(err)).Inc()
	return err
}
