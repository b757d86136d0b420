package social

import (
	"context"
	"sync"

	"placement/internal/models"
	"placement/internal/observability"
)

// FollowOutcome is the reconciled result of a follow toggle.
type FollowOutcome = Outcome[models.FollowState]

// Profile is the follow view of one rendered profile.
type Profile struct {
	id     string
	engine *Engine

	mu      sync.Mutex
	state   models.FollowState
	follows *reconciler
	closed  bool
}

func (p *Profile) ID() string {
	return p.id
}

func (p *Profile) State() models.FollowState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone()
}

// Close detaches the view. Responses arriving afterwards are discarded.
func (p *Profile) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.follows.closed = true
}

// ToggleFollow follows or unfollows the profile with the same reconciliation rules as
// Post.ToggleLike.
func (p *Profile) ToggleFollow(ctx context.Context, sess models.Session) (models.FollowState, <-chan FollowOutcome, error) {
	if err := requireActor(sess); err != nil {
		return p.State(), nil, err
	}
	if sess.UserID == p.id {
		return p.State(), nil, models.NewValidationError("cannot follow yourself")
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return models.FollowState{}, nil, ErrViewClosed
	}
	snapshot := p.state.Clone()
	next, write := ToggleFollow(p.state, sess.UserID)
	write.ProfileID = p.id
	p.state = next
	seq := p.follows.issue(ctx)
	view := p.state.Clone()
	p.mu.Unlock()

	pending := dispatch(ctx,
		func(ctx context.Context) error {
			return p.engine.profiles.UpdateFollowers(ctx, sess, write)
		},
		func(err error) FollowOutcome {
			p.mu.Lock()
			defer p.mu.Unlock()

			result := p.follows.settle(ctx, seq, err)
			if result == observability.OutcomeRolledBack {
				p.state = snapshot
			}
			return FollowOutcome{Seq: seq, State: p.state.Clone(), Err: err, Result: result}
		},
	)
	return view, pending, nil
}
