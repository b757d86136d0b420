// Package middleware provides the Fiber middleware of the BFF: request context, logging,
// sessions, tracing, metrics and rate limiting.
package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"placement/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals set by the middleware in this package.
const (
	LocalRequestID = "requestid"
	LocalUserID    = "userID"
	LocalTraceID   = "traceID"
	LocalSession   = "session"
)

// HeaderCorrelationID carries a correlation id across services. It is echoed on the response.
const HeaderCorrelationID = "X-Correlation-ID"

// ContextMiddleware copies request ID, user ID and trace ID from Fiber locals into the
// request context so the context-aware logger picks them up in deeper layers. Requests
// without an X-Correlation-ID get a fresh one.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		corr := strings.Clone(strings.TrimSpace(c.Get(HeaderCorrelationID)))
		if corr == "" {
			corr = observability.GenerateCorrelationID()
		}
		c.Set(HeaderCorrelationID, corr)

		ctx := observability.WithCorrelationID(c.UserContext(), corr)
		c.SetUserContext(withLocals(c, ctx))
		return c.Next()
	}
}

func withLocals(c *fiber.Ctx, ctx context.Context) context.Context {
	if rid, ok := c.Locals(LocalRequestID).(string); ok && rid != "" {
		ctx = context.WithValue(ctx, observability.RequestIDKey, rid)
	}
	if uid, ok := c.Locals(LocalUserID).(string); ok && uid != "" {
		ctx = context.WithValue(ctx, observability.UserIDKey, uid)
	}
	if tid, ok := c.Locals(LocalTraceID).(string); ok && tid != "" {
		ctx = context.WithValue(ctx, observability.TraceIDKey, tid)
	}
	return ctx
}

// StructuredLogger returns a Fiber middleware for logging requests using slog
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		fields := []any{
			slog.Int("status", status),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Get(fiber.HeaderUserAgent)),
		}

		// Session middleware runs later in the chain, so refresh the context here.
		ctx := withLocals(c, c.UserContext())
		switch {
		case err != nil:
			fields = append(fields, slog.String("error", err.Error()))
			observability.Logger.ErrorContext(ctx, "request failed", fields...)
		case status >= fiber.StatusInternalServerError:
			observability.Logger.WarnContext(ctx, "request processed", fields...)
		default:
			observability.Logger.InfoContext(ctx, "request processed", fields...)
		}

		return err
	}
}
