package strapi

import (
	"context"

	"placement/internal/models"
	"placement/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const postPath = "/api/posts/{id}"

type postAttributes struct {
	Likes    *int `json:"likes"`
	LikedBy  []ID `json:"likedBy"`
	Comments *struct {
		Data *struct {
			Attributes struct {
				Count int `json:"count"`
			} `json:"attributes"`
		} `json:"data"`
	} `json:"comments"`
}

type postEnvelope struct {
	Data *struct {
		ID         ID              `json:"id"`
		Attributes *postAttributes `json:"attributes"`
	} `json:"data"`
}

func (e *postEnvelope) toPost(op string) (*models.Post, error) {
	if e.Data == nil || e.Data.ID == "" {
		return nil, missing(op, "data.id")
	}
	if e.Data.Attributes == nil {
		return nil, missing(op, "data.attributes")
	}
	attrs := e.Data.Attributes
	post := &models.Post{
		ID:      string(e.Data.ID),
		LikedBy: idStrings(attrs.LikedBy),
	}
	if attrs.Likes != nil {
		post.Likes = *attrs.Likes
	}
	if attrs.Comments != nil && attrs.Comments.Data != nil {
		post.CommentCount = attrs.Comments.Data.Attributes.Count
	}
	return post, nil
}

// GetPost fetches the engagement fields of a post.
func (c *Client) GetPost(ctx context.Context, sess models.Session, postID string) (post *models.Post, err error) {
	const op = "get post"
	ctx, span := observability.StartCMSSpan(ctx, "GetPost", attribute.String("post.id", postID))
	defer func() { observability.EndSpan(span, err) }()

	req, err := c.read(ctx, op, sess)
	if err != nil {
		return nil, err
	}
	res, err := req.
		SetPathParam("id", postID).
		SetQueryParam("populate[comments][count]", "true").
		Get(postPath)
	if err := check(op, res, err); err != nil {
		return nil, err
	}

	var env postEnvelope
	if err := decode(op, res, &env); err != nil {
		return nil, err
	}
	return env.toPost(op)
}

// UpdatePostLikes persists the like count and liker set of a post.
func (c *Client) UpdatePostLikes(ctx context.Context, sess models.Session, w models.LikeWrite) (err error) {
	const op = "update post likes"
	ctx, span := observability.StartCMSSpan(ctx, "UpdatePostLikes",
		attribute.String("post.id", w.PostID),
		attribute.Int("post.likes", w.Likes),
	)
	defer func() { observability.EndSpan(span, err) }()

	if w.PostID == "" {
		return models.NewValidationError(op + ": post id is required")
	}
	req, err := c.write(ctx, op, sess)
	if err != nil {
		return err
	}

	likedBy := w.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	body := map[string]any{
		"data": map[string]any{
			"likes":   w.Likes,
			"likedBy": likedBy,
		},
	}
	res, err := req.
		SetPathParam("id", w.PostID).
		SetBody(body).
		Put(postPath)
	if err := check(op, res, err); err != nil {
		return err
	}

	var env postEnvelope
	if err := decode(op, res, &env); err != nil {
		return err
	}
	_, err = env.toPost(op)
	return err
}
