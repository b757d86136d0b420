package social

import (
	"context"
	"errors"

	"placement/internal/observability"
)

// ErrViewClosed is returned for actions on a view that has been closed.
var ErrViewClosed = errors.New("social: view closed")

// Outcome is the reconciled result of one optimistic write.
type Outcome[S any] struct {
	Seq uint64
	// State is the view state after reconciliation.
	State S
	// Err is the error of the write, if it failed.
	Err error
	// Result is one of observability.OutcomeConfirmed, OutcomeRolledBack or OutcomeDiscarded.
	Result string
}

func (o Outcome[S]) Confirmed() bool  { return o.Result == observability.OutcomeConfirmed }
func (o Outcome[S]) RolledBack() bool { return o.Result == observability.OutcomeRolledBack }
func (o Outcome[S]) Discarded() bool  { return o.Result == observability.OutcomeDiscarded }

// reconciler hands out request sequence numbers for one view and decides whether a
// response still applies. All methods are called with the owning view's lock held.
type reconciler struct {
	action string
	target string
	latest uint64
	closed bool
	log    *observability.ActionLogger
}

func newReconciler(action, target string) *reconciler {
	return &reconciler{
		action: action,
		target: target,
		log:    observability.NewActionLogger(action),
	}
}

func (r *reconciler) issue(ctx context.Context) uint64 {
	r.latest++
	r.log.LogStarted(ctx, r.target, r.latest)
	return r.latest
}

// settle classifies the response to write seq. Only the latest write of an open view
// may commit or roll back.
func (r *reconciler) settle(ctx context.Context, seq uint64, err error) string {
	var outcome string
	switch {
	case r.closed || seq != r.latest:
		outcome = observability.OutcomeDiscarded
	case err != nil:
		outcome = observability.OutcomeRolledBack
	default:
		outcome = observability.OutcomeConfirmed
	}
	r.log.LogOutcome(ctx, r.target, seq, outcome, err)
	observability.RecordOutcome(r.action, outcome)
	return outcome
}

// dispatch runs write in the background and delivers the settled outcome on the returned channel.
func dispatch[S any](ctx context.Context, write func(context.Context) error, settle func(error) Outcome[S]) <-chan Outcome[S] {
	done := make(chan Outcome[S], 1)
	go func() {
		defer close(done)
		done <- settle(write(ctx))
	}()
	return done
}

// Wait blocks until the outcome of an optimistic write arrives or ctx is done.
func Wait[S any](ctx context.Context, pending <-chan Outcome[S]) (Outcome[S], error) {
	select {
	case out, ok := <-pending:
		if !ok {
			return out, ErrViewClosed
		}
		return out, nil
	case <-ctx.Done():
		var zero Outcome[S]
		return zero, ctx.Err()
	}
}
