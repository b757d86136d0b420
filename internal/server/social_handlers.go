package server

import (
	"placement/internal/middleware"
	"placement/internal/models"
	"placement/internal/social"

	"github.com/gofiber/fiber/v2"
)

// PostSocialResponse is the engagement state of a post for the current user.
type PostSocialResponse struct {
	PostID string                   `json:"post_id"`
	State  models.SocialActionState `json:"state"`
}

// LikeResponse is the confirmed state after a like toggle.
type LikeResponse struct {
	PostID string                   `json:"post_id"`
	State  models.SocialActionState `json:"state"`
	Result string                   `json:"result"`
}

// FollowResponse is the confirmed state after a follow toggle.
type FollowResponse struct {
	ProfileID string             `json:"profile_id"`
	State     models.FollowState `json:"state"`
	Result    string             `json:"result"`
}

// CommentsResponse is the newest page of a post's comments.
type CommentsResponse struct {
	PostID   string           `json:"post_id"`
	Comments []models.Comment `json:"comments"`
	Count    int              `json:"count"`
}

// CreateCommentRequest is the body of a comment submission.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CreateCommentResponse reports a created comment and the refreshed page. Stale is set
// when the comment was stored but the page could not be reloaded.
type CreateCommentResponse struct {
	PostID       string            `json:"post_id"`
	CommentCount int               `json:"comment_count"`
	Comments     []models.Comment  `json:"comments"`
	Panel        social.PanelState `json:"panel"`
	Stale        bool              `json:"stale,omitempty"`
	RefreshError string            `json:"refresh_error,omitempty"`
}

// GetPostSocial returns the like state of a post for the caller.
func (s *Server) GetPostSocial(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.engine.OpenPost(c.UserContext(), middleware.SessionFrom(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	defer post.Close()

	return c.JSON(PostSocialResponse{PostID: post.ID(), State: post.State()})
}

// ToggleLike flips the caller's like on a post and answers once the write is reconciled.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()
	sess := middleware.SessionFrom(c)

	post, err := s.engine.OpenPost(ctx, sess, postID)
	if err != nil {
		return respondError(c, err)
	}
	defer post.Close()

	_, pending, err := post.ToggleLike(ctx, sess)
	if err != nil {
		return respondError(c, err)
	}
	out, err := social.Wait(ctx, pending)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	if out.Err != nil {
		return c.Status(models.StatusFor(out.Err)).JSON(ActionErrorResponse{
			ErrorResponse: models.NewErrorResponse(out.Err),
			State:         out.State,
		})
	}
	return c.JSON(LikeResponse{PostID: post.ID(), State: out.State, Result: out.Result})
}

// ToggleFollow flips the caller's follow of a profile.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	profileID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()
	sess := middleware.SessionFrom(c)

	profile, err := s.engine.OpenProfile(ctx, sess, profileID)
	if err != nil {
		return respondError(c, err)
	}
	defer profile.Close()

	_, pending, err := profile.ToggleFollow(ctx, sess)
	if err != nil {
		return respondError(c, err)
	}
	out, err := social.Wait(ctx, pending)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	if out.Err != nil {
		return c.Status(models.StatusFor(out.Err)).JSON(ActionErrorResponse{
			ErrorResponse: models.NewErrorResponse(out.Err),
			State:         out.State,
		})
	}
	return c.JSON(FollowResponse{ProfileID: profile.ID(), State: out.State, Result: out.Result})
}

// GetComments returns the newest comments of a post.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	loader := s.engine.Comments()
	limit := parseLimit(c, loader.PageSize())

	comments, err := loader.Load(c.UserContext(), middleware.SessionFrom(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return c.JSON(CommentsResponse{PostID: postID, Comments: comments, Count: len(comments)})
}

// CreateComment stores a comment and returns the refreshed newest page.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	ctx := c.UserContext()
	sess := middleware.SessionFrom(c)
	post, err := s.engine.OpenPost(ctx, sess, postID)
	if err != nil {
		return respondError(c, err)
	}
	defer post.Close()

	comments, err := post.SubmitComment(ctx, sess, req.Content)
	if err != nil {
		if post.Panel() != social.PanelExpandedStale {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(CreateCommentResponse{
			PostID:       post.ID(),
			CommentCount: post.State().CommentCount,
			Comments:     []models.Comment{},
			Panel:        post.Panel(),
			Stale:        true,
			RefreshError: models.NewErrorResponse(err).Error,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(CreateCommentResponse{
		PostID:       post.ID(),
		CommentCount: post.State().CommentCount,
		Comments:     comments,
		Panel:        post.Panel(),
	})
}
