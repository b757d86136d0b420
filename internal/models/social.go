package models

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"
)

// Session carries the caller's credential and identity. Both are opaque to the engine.
type Session struct {
	Token  string `json:"-"`
	UserID string `json:"user_id"`
}

// Authenticated reports whether the session has a credential.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// SocialActionState is the per-post engagement state rendered for one user.
type SocialActionState struct {
	IsLiked      bool      `json:"is_liked"`
	LikeCount    int       `json:"like_count"`
	LikedBy      []string  `json:"liked_by"`
	CommentCount int       `json:"comment_count"`
	Comments     []Comment `json:"comments,omitempty"`
}

// Clone returns a deep copy so snapshots never share backing arrays with live state.
func (s SocialActionState) Clone() SocialActionState {
	out := s
	out.LikedBy = slices.Clone(s.LikedBy)
	out.Comments = slices.Clone(s.Comments)
	return out
}

// Consistent reports whether the at-rest invariants hold for userID.
func (s SocialActionState) Consistent(userID string) bool {
	return len(s.LikedBy) == s.LikeCount && s.IsLiked == lo.Contains(s.LikedBy, userID)
}

// FollowState is the follow relation between the current user and one profile.
type FollowState struct {
	IsFollowing   bool     `json:"is_following"`
	FollowerCount int      `json:"follower_count"`
	Followers     []string `json:"followers"`
}

// Clone returns a deep copy of the state.
func (s FollowState) Clone() FollowState {
	out := s
	out.Followers = slices.Clone(s.Followers)
	return out
}

// Post is the engagement-relevant projection of a CMS post record.
type Post struct {
	ID           string   `json:"id"`
	Likes        int      `json:"likes"`
	LikedBy      []string `json:"liked_by"`
	CommentCount int      `json:"comment_count"`
}

// StateFor projects the post into the engagement state seen by userID.
func (p *Post) StateFor(userID string) SocialActionState {
	likedBy := lo.Uniq(p.LikedBy)
	return SocialActionState{
		IsLiked:      userID != "" && lo.Contains(likedBy, userID),
		LikeCount:    len(likedBy),
		LikedBy:      likedBy,
		CommentCount: p.CommentCount,
	}
}

// Profile is the follow-relevant projection of a CMS user record.
type Profile struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Followers []string `json:"followers"`
}

// FollowStateFor projects the profile into the follow state seen by userID.
func (p *Profile) FollowStateFor(userID string) FollowState {
	followers := lo.Uniq(p.Followers)
	return FollowState{
		IsFollowing:   userID != "" && lo.Contains(followers, userID),
		FollowerCount: len(followers),
		Followers:     followers,
	}
}

// LikeWrite describes the remote write that persists a like toggle.
type LikeWrite struct {
	PostID  string   `json:"-"`
	Likes   int      `json:"likes"`
	LikedBy []string `json:"likedBy"`
}

// FollowWrite describes the remote write that persists a follow toggle.
type FollowWrite struct {
	ProfileID string   `json:"-"`
	Followers []string `json:"followers"`
}

// Comment is a persisted comment on a post.
type Comment struct {
	ID       string    `json:"id"`
	Content  string    `json:"content"`
	Author   Author    `json:"author"`
	PostedAt time.Time `json:"posted_at"`
}

// NewComment is the payload of a create-comment write.
type NewComment struct {
	PostID       string
	AuthorUserID string
	Content      string
	SentAt       time.Time
}

// Author is the display identity of a comment author.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Initials    string `json:"initials"`
}

// NewAuthor derives display name and initials from a username, falling back to the
// local part of the e-mail address.
func NewAuthor(id, username, email string) Author {
	name := strings.TrimSpace(username)
	if name == "" {
		name, _, _ = strings.Cut(strings.TrimSpace(email), "@")
	}
	if name == "" {
		name = "Anonymous"
	}
	return Author{
		ID:          id,
		DisplayName: name,
		Initials:    Initials(name),
	}
}

// Initials returns up to two upper-case initials of name. Words are split on
// whitespace, dots, underscores and hyphens.
func Initials(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '_' || r == '-'
	})
	initials := make([]rune, 0, 2)
	for _, w := range words {
		initials = append(initials, unicode.ToUpper([]rune(w)[0]))
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return string(initials)
}
