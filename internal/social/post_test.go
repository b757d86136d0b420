package social

import (
	"context"
	"errors"
	"testing"
	"time"

	"placement/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func await[S any](t *testing.T, pending <-chan Outcome[S]) Outcome[S] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := Wait(ctx, pending)
	require.NoError(t, err)
	return out
}

func initialLikes() models.SocialActionState {
	return models.SocialActionState{IsLiked: false, LikeCount: 3, LikedBy: []string{"a", "b", "c"}, CommentCount: 1}
}

func TestPost_ToggleLike_FailedWriteRevertsToSnapshot(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	store.updatePostLikesFn = func(context.Context, models.Session, models.LikeWrite) error {
		return models.NewNetworkError("update post likes", errors.New("connection reset"))
	}
	post := NewEngine(store, store, nil).NewPost("p1", initialLikes())

	optimistic, pending, err := post.ToggleLike(context.Background(), session("d"))
	require.NoError(t, err)
	assert.Equal(t, models.SocialActionState{IsLiked: true, LikeCount: 4, LikedBy: []string{"a", "b", "c", "d"}, CommentCount: 1}, optimistic)

	out := await(t, pending)
	assert.True(t, out.RolledBack())
	assert.True(t, models.IsCode(out.Err, models.CodeNetworkFailure))
	assert.Equal(t, initialLikes(), out.State)
	assert.Equal(t, initialLikes(), post.State())
}

func TestPost_ToggleLike_ConfirmedWrite(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	var got models.LikeWrite
	store.updatePostLikesFn = func(_ context.Context, sess models.Session, w models.LikeWrite) error {
		assert.Equal(t, "jwt-d", sess.Token)
		got = w
		return nil
	}
	post := NewEngine(store, store, nil).NewPost("p1", initialLikes())

	_, pending, err := post.ToggleLike(context.Background(), session("d"))
	require.NoError(t, err)

	out := await(t, pending)
	assert.True(t, out.Confirmed())
	assert.NoError(t, out.Err)
	assert.Equal(t, models.LikeWrite{PostID: "p1", Likes: 4, LikedBy: []string{"a", "b", "c", "d"}}, got)
	assert.True(t, post.State().Consistent("d"))
	assert.True(t, post.State().IsLiked)
}

func TestPost_ToggleLike_RequiresSession(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	post := NewEngine(store, store, nil).NewPost("p1", initialLikes())

	state, pending, err := post.ToggleLike(context.Background(), models.Session{UserID: "d"})
	assert.True(t, models.IsCode(err, models.CodeUnauthenticated))
	assert.Nil(t, pending)
	assert.Equal(t, initialLikes(), state)

	_, _, err = post.ToggleLike(context.Background(), models.Session{Token: "jwt"})
	assert.True(t, models.IsCode(err, models.CodeInvalidInput))

	assert.Zero(t, store.total())
}

func TestPost_ToggleLike_StaleFailureIsDiscarded(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	calls := store.blockingLikes()
	post := NewEngine(store, store, nil).NewPost("p1", initialLikes())
	ctx := context.Background()

	_, first, err := post.ToggleLike(ctx, session("d"))
	require.NoError(t, err)
	reply1 := <-calls
	_, second, err := post.ToggleLike(ctx, session("d"))
	require.NoError(t, err)
	reply2 := <-calls

	reply1 <- errors.New("timeout")
	out1 := await(t, first)
	assert.True(t, out1.Discarded())
	assert.Equal(t, initialLikes(), post.State(), "second toggle's optimistic state must survive")

	reply2 <- nil
	out2 := await(t, second)
	assert.True(t, out2.Confirmed())
	assert.Equal(t, uint64(2), out2.Seq)
	assert.Equal(t, initialLikes(), post.State())
}

func TestPost_ToggleLike_LatestFailureRevertsToItsOwnSnapshot(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	calls := store.blockingLikes()
	post := NewEngine(store, store, nil).NewPost("p1", initialLikes())
	ctx := context.Background()

	liked, first, err := post.ToggleLike(ctx, session("d"))
	require.NoError(t, err)
	reply1 := <-calls
	_, second, err := post.ToggleLike(ctx, session("d"))
	require.NoError(t, err)
	reply2 := <-calls

	reply1 <- nil
	assert.True(t, await(t, first).Discarded())

	reply2 <- models.NewRemoteRejectedError("update post likes", 500, "")
	out2 := await(t, second)
	assert.True(t, out2.RolledBack())
	assert.Equal(t, liked, out2.State)
	assert.Equal(t, liked, post.State())
}

func TestPost_ToggleLike_OverlappingFailuresSettleOnSecondSnapshot(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	calls := store.blockingLikes()
	post := NewEngine(store, store, nil).NewPost("p1", initialLikes())
	ctx := context.Background()

	liked, first, err := post.ToggleLike(ctx, session("d"))
	require.NoError(t, err)
	reply1 := <-calls
	_, second, err := post.ToggleLike(ctx, session("d"))
	require.NoError(t, err)
	reply2 := <-calls

	reply1 <- models.NewNetworkError("update post likes", errors.New("connection reset"))
	out1 := await(t, first)
	assert.True(t, out1.Discarded())

	reply2 <- models.NewNetworkError("update post likes", errors.New("connection reset"))
	out2 := await(t, second)
	assert.True(t, out2.RolledBack())

	// The second snapshot already holds the first, never confirmed, like.
	assert.Equal(t, liked, out2.State)
	assert.Equal(t, liked, post.State())
	assert.True(t, post.State().IsLiked)
	assert.Equal(t, 4, post.State().LikeCount)
	assert.True(t, post.State().Consistent("d"))
}

func TestPost_Close_DiscardsInFlightResponse(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	calls := store.blockingLikes()
	post := NewEngine(store, store, nil).NewPost("p1", initialLikes())

	_, pending, err := post.ToggleLike(context.Background(), session("d"))
	require.NoError(t, err)
	reply := <-calls

	post.Close()
	reply <- errors.New("boom")

	out := await(t, pending)
	assert.True(t, out.Discarded())

	_, _, err = post.ToggleLike(context.Background(), session("d"))
	assert.ErrorIs(t, err, ErrViewClosed)
}

func TestPost_ToggleLike_RandomConfirmedCycles(t *testing.T) {
	t.Parallel()
	faker := gofakeit.New(7)

	for run := 0; run < 20; run++ {
		store := newStoreStub()
		user := faker.Username()
		likers := []string{faker.UUID(), faker.UUID()}
		post := NewEngine(store, store, nil).NewPost("p", models.SocialActionState{LikeCount: len(likers), LikedBy: likers})

		for i, n := 0, faker.Number(1, 12); i < n; i++ {
			_, pending, err := post.ToggleLike(context.Background(), session(user))
			require.NoError(t, err)
			require.True(t, await(t, pending).Confirmed())

			state := post.State()
			assert.Equal(t, state.IsLiked, contains(state.LikedBy, user))
			assert.Len(t, state.LikedBy, state.LikeCount)
		}
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestEngine_OpenPost(t *testing.T) {
	t.Parallel()

	store := newStoreStub()
	store.getPostFn = func(_ context.Context, _ models.Session, id string) (*models.Post, error) {
		return &models.Post{ID: id, Likes: 9, LikedBy: []string{"a", "d", "a"}, CommentCount: 4}, nil
	}
	engine := NewEngine(store, store, nil)

	post, err := engine.OpenPost(context.Background(), session("d"), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID())
	assert.Equal(t, models.SocialActionState{IsLiked: true, LikeCount: 2, LikedBy: []string{"a", "d"}, CommentCount: 4}, post.State())
	assert.Equal(t, PanelCollapsed, post.Panel())

	_, err = engine.OpenPost(context.Background(), session("d"), "")
	assert.True(t, models.IsCode(err, models.CodeInvalidInput))

	store.getPostFn = func(context.Context, models.Session, string) (*models.Post, error) {
		return nil, models.NewNotFoundError("post", "p2")
	}
	_, err = engine.OpenPost(context.Background(), session("d"), "p2")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestWait_ContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Wait(ctx, make(chan LikeOutcome))
	assert.ErrorIs(t, err, context.Canceled)
}
