package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"placement/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingUserID = errors.New("token has no user id")
	errExpired       = errors.New("token is expired")
)

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Secret verifies HS256 tokens issued by the CMS. When empty, tokens are decoded without
	// verification and the CMS remains the authority on every forwarded call.
	Secret string
	// Now is used for expiry checks of unverified tokens. Defaults to time.Now.
	Now func() time.Time
}

// Session extracts the caller's models.Session from the bearer token. Requests without a
// token continue as anonymous; malformed, expired or unverifiable tokens are rejected.
func Session(cfg SessionConfig) fiber.Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			c.Locals(LocalSession, models.Session{})
			return c.Next()
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Invalid authorization header format"))
		}

		userID, err := userIDFromToken(token, cfg)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				&models.AppError{Code: models.CodeUnauthenticated, Message: "Invalid or expired token", Err: err})
		}

		c.Locals(LocalSession, models.Session{Token: token, UserID: userID})
		c.Locals(LocalUserID, userID)
		c.SetUserContext(withLocals(c, c.UserContext()))
		return c.Next()
	}
}

// RequireSession rejects anonymous requests.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !SessionFrom(c).Authenticated() {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Authorization header required"))
		}
		return c.Next()
	}
}

// SessionFrom returns the session stored by Session, or an anonymous one.
func SessionFrom(c *fiber.Ctx) models.Session {
	sess, _ := c.Locals(LocalSession).(models.Session)
	return sess
}

func userIDFromToken(token string, cfg SessionConfig) (string, error) {
	claims := jwt.MapClaims{}

	if cfg.Secret != "" {
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return "", err
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return "", err
		}
		exp, err := claims.GetExpirationTime()
		if err != nil {
			return "", err
		}
		if exp != nil && !cfg.Now().Before(exp.Time) {
			return "", errExpired
		}
	}

	return claimUserID(claims)
}

// claimUserID reads the CMS "id" claim, falling back to "sub".
func claimUserID(claims jwt.MapClaims) (string, error) {
	raw, ok := claims["id"]
	if !ok {
		raw, ok = claims["sub"]
	}
	if !ok {
		return "", errMissingUserID
	}

	switch v := raw.(type) {
	case float64:
		if v <= 0 || v != float64(int64(v)) {
			return "", fmt.Errorf("invalid user id %v", v)
		}
		return strconv.FormatInt(int64(v), 10), nil
	case string:
		if v == "" {
			return "", errMissingUserID
		}
		return v, nil
	default:
		return "", fmt.Errorf("invalid user id type %T", raw)
	}
}
