package strapi

import (
	"context"

	"placement/internal/models"
	"placement/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const userPath = "/api/users/{id}"

// The users endpoint is not wrapped in a data envelope.
type userBody struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Followers []struct {
		ID ID `json:"id"`
	} `json:"followers"`
}

func (u *userBody) toProfile(op string) (*models.Profile, error) {
	if u.ID == "" {
		return nil, missing(op, "id")
	}
	followers := make([]string, 0, len(u.Followers))
	for _, f := range u.Followers {
		if f.ID != "" {
			followers = append(followers, string(f.ID))
		}
	}
	return &models.Profile{
		ID:        string(u.ID),
		Username:  u.Username,
		Followers: followers,
	}, nil
}

// GetProfile fetches a user profile with its followers.
func (c *Client) GetProfile(ctx context.Context, sess models.Session, profileID string) (profile *models.Profile, err error) {
	const op = "get profile"
	ctx, span := observability.StartCMSSpan(ctx, "GetProfile", attribute.String("profile.id", profileID))
	defer func() { observability.EndSpan(span, err) }()

	req, err := c.read(ctx, op, sess)
	if err != nil {
		return nil, err
	}
	res, err := req.
		SetPathParam("id", profileID).
		SetQueryParam("populate[followers][fields][0]", "id").
		Get(userPath)
	if err := check(op, res, err); err != nil {
		return nil, err
	}

	var body userBody
	if err := decode(op, res, &body); err != nil {
		return nil, err
	}
	return body.toProfile(op)
}

// UpdateFollowers persists the follower set of a profile.
func (c *Client) UpdateFollowers(ctx context.Context, sess models.Session, w models.FollowWrite) (err error) {
	const op = "update followers"
	ctx, span := observability.StartCMSSpan(ctx, "UpdateFollowers",
		attribute.String("profile.id", w.ProfileID),
		attribute.Int("profile.followers", len(w.Followers)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if w.ProfileID == "" {
		return models.NewValidationError(op + ": profile id is required")
	}
	req, err := c.write(ctx, op, sess)
	if err != nil {
		return err
	}

	res, err := req.
		SetPathParam("id", w.ProfileID).
		SetBody(map[string]any{"followers": relationIDs(w.Followers)}).
		Put(userPath)
	if err := check(op, res, err); err != nil {
		return err
	}

	var body userBody
	if err := decode(op, res, &body); err != nil {
		return err
	}
	_, err = body.toProfile(op)
	return err
}
