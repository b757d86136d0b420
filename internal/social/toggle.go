package social

import (
	"placement/internal/models"

	"github.com/samber/lo"
)

// ToggleLike flips the like of userID on state. It returns the state to render immediately
// and the write that persists it. The write's PostID is left for the caller to fill in.
func ToggleLike(state models.SocialActionState, userID string) (models.SocialActionState, models.LikeWrite) {
	next := state.Clone()
	next.IsLiked = !state.IsLiked
	next.LikedBy = toggleMember(next.LikedBy, userID, next.IsLiked)
	next.LikeCount = len(next.LikedBy)

	return next, models.LikeWrite{
		Likes:   next.LikeCount,
		LikedBy: append([]string{}, next.LikedBy...),
	}
}

// ToggleFollow flips the follow of userID on state.
func ToggleFollow(state models.FollowState, userID string) (models.FollowState, models.FollowWrite) {
	next := state.Clone()
	next.IsFollowing = !state.IsFollowing
	next.Followers = toggleMember(next.Followers, userID, next.IsFollowing)
	next.FollowerCount = len(next.Followers)

	return next, models.FollowWrite{
		Followers: append([]string{}, next.Followers...),
	}
}

// toggleMember adds or removes id from the ordered set members.
func toggleMember(members []string, id string, want bool) []string {
	if !want {
		return lo.Without(members, id)
	}
	if lo.Contains(members, id) {
		return members
	}
	return append(members, id)
}
