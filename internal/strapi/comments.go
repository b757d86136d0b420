package strapi

import (
	"context"
	"strconv"
	"strings"
	"time"

	"placement/internal/models"
	"placement/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const commentsPath = "/api/comments"

type authorEnvelope struct {
	Data *struct {
		ID         ID `json:"id"`
		Attributes struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"attributes"`
	} `json:"data"`
}

type commentData struct {
	ID         ID `json:"id"`
	Attributes *struct {
		Content string          `json:"content"`
		SentAt  *time.Time      `json:"sentAt"`
		Author  *authorEnvelope `json:"author"`
	} `json:"attributes"`
}

func (d *commentData) toComment(op string) (models.Comment, error) {
	if d.ID == "" {
		return models.Comment{}, missing(op, "id")
	}
	if d.Attributes == nil {
		return models.Comment{}, missing(op, "attributes")
	}
	if d.Attributes.SentAt == nil {
		return models.Comment{}, missing(op, "attributes.sentAt")
	}

	author := models.NewAuthor("", "", "")
	if a := d.Attributes.Author; a != nil && a.Data != nil {
		author = models.NewAuthor(string(a.Data.ID), a.Data.Attributes.Username, a.Data.Attributes.Email)
	}
	return models.Comment{
		ID:       string(d.ID),
		Content:  d.Attributes.Content,
		Author:   author,
		PostedAt: *d.Attributes.SentAt,
	}, nil
}

// CreateComment persists a comment and returns its assigned id.
func (c *Client) CreateComment(ctx context.Context, sess models.Session, in models.NewComment) (id string, err error) {
	const op = "create comment"
	ctx, span := observability.StartCMSSpan(ctx, "CreateComment", attribute.String("post.id", in.PostID))
	defer func() { observability.EndSpan(span, err) }()

	if strings.TrimSpace(in.Content) == "" || in.PostID == "" || in.AuthorUserID == "" {
		return "", models.NewValidationError(op + ": post, author and content are required")
	}
	req, err := c.write(ctx, op, sess)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"data": map[string]any{
			"post":    relationID(in.PostID),
			"author":  relationID(in.AuthorUserID),
			"content": in.Content,
			"sentAt":  in.SentAt.UTC().Format(time.RFC3339Nano),
		},
	}
	res, err := req.SetBody(body).Post(commentsPath)
	if err := check(op, res, err); err != nil {
		return "", err
	}

	var env struct {
		Data *commentData `json:"data"`
	}
	if err := decode(op, res, &env); err != nil {
		return "", err
	}
	if env.Data == nil || env.Data.ID == "" {
		return "", missing(op, "data.id")
	}
	return string(env.Data.ID), nil
}

// ListComments returns the newest comments of a post, newest first, at most limit of them.
func (c *Client) ListComments(ctx context.Context, sess models.Session, postID string, limit int) (comments []models.Comment, err error) {
	const op = "list comments"
	ctx, span := observability.StartCMSSpan(ctx, "ListComments",
		attribute.String("post.id", postID),
		attribute.Int("page.limit", limit),
	)
	defer func() { observability.EndSpan(span, err) }()

	req, err := c.read(ctx, op, sess)
	if err != nil {
		return nil, err
	}
	res, err := req.
		SetQueryParam("filters[post][id][$eq]", postID).
		SetQueryParam("sort", "sentAt:desc").
		SetQueryParam("pagination[limit]", strconv.Itoa(limit)).
		SetQueryParam("populate[author][fields][0]", "username").
		SetQueryParam("populate[author][fields][1]", "email").
		Get(commentsPath)
	if err := check(op, res, err); err != nil {
		return nil, err
	}

	var env struct {
		Data []commentData `json:"data"`
	}
	if err := decode(op, res, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, missing(op, "data")
	}

	comments = make([]models.Comment, 0, len(env.Data))
	for i := range env.Data {
		comment, err := env.Data[i].toComment(op)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}
