// Package strapi is a REST client for the headless CMS that stores posts, comments and profiles.
package strapi

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"placement/internal/models"
	"placement/internal/observability"

	"resty.dev/v3"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// APIToken is a read-only service token used for reads when the caller has no session token.
	APIToken string

	TransportSettings *resty.TransportSettings

	ResponseMiddlewares []resty.ResponseMiddleware
	RequestMiddlewares  []resty.RequestMiddleware

	Logger *slog.Logger
}

// DefaultTransportSettings are the transport timeouts used when none are configured.
var DefaultTransportSettings = &resty.TransportSettings{
	DialerTimeout:         2 * time.Second,
	DialerKeepAlive:       30 * time.Second,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   2 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ResponseHeaderTimeout: 5 * time.Second,
}

// Client talks to the CMS REST API.
type Client struct {
	client   *resty.Client
	apiToken string
	logger   *slog.Logger
}

type operationKey struct{}

// NewClient builds a Client.
func NewClient(cfg ClientConfig) *Client {
	settings := cfg.TransportSettings
	if settings == nil {
		settings = DefaultTransportSettings
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observability.Logger
	}

	client := resty.NewWithTransportSettings(settings).
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	c := &Client{
		client:   client,
		apiToken: cfg.APIToken,
		logger:   logger,
	}

	client.AddResponseMiddleware(c.observeResponse)
	for _, m := range cfg.RequestMiddlewares {
		client.AddRequestMiddleware(m)
	}
	for _, m := range cfg.ResponseMiddlewares {
		client.AddResponseMiddleware(m)
	}

	return c
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.client.Close()
}

// r builds a request carrying the session's bearer token.
func (c *Client) r(ctx context.Context, op string, sess models.Session) *resty.Request {
	ctx = context.WithValue(ctx, operationKey{}, op)
	req := c.client.R().WithContext(ctx)
	if sess.Token != "" {
		req.SetAuthToken(sess.Token)
	}
	return req
}

// read builds a request for a read, falling back to the service token.
func (c *Client) read(ctx context.Context, op string, sess models.Session) (*resty.Request, error) {
	if sess.Token == "" && c.apiToken == "" {
		return nil, models.NewUnauthenticatedError(op + ": no credential available")
	}
	req := c.r(ctx, op, sess)
	if sess.Token == "" {
		req.SetAuthToken(c.apiToken)
	}
	return req, nil
}

// write builds a request for a write. Writes always require the caller's own token.
func (c *Client) write(ctx context.Context, op string, sess models.Session) (*resty.Request, error) {
	if !sess.Authenticated() {
		return nil, models.NewUnauthenticatedError(op + ": sign in required")
	}
	return c.r(ctx, op, sess), nil
}

func (c *Client) observeResponse(_ *resty.Client, res *resty.Response) error {
	op, _ := res.Request.Context().Value(operationKey{}).(string)
	observability.ObserveCMSRequest(res.Request.Method, op, strconv.Itoa(res.StatusCode()), res.Duration())

	path := res.Request.URL
	if u, err := url.Parse(res.Request.URL); err == nil {
		path = u.Path
	}
	c.logger.DebugContext(res.Request.Context(), "cms request",
		slog.String("operation", op),
		slog.String("method", res.Request.Method),
		slog.String("path", path),
		slog.Int("status", res.StatusCode()),
		slog.Duration("duration", res.Duration()),
	)
	return nil
}
