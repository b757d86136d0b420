// Package server contains the HTTP handlers of the placement BFF.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"placement/internal/cache"
	"placement/internal/config"
	"placement/internal/middleware"
	"placement/internal/models"
	"placement/internal/observability"
	"placement/internal/social"
	"placement/internal/strapi"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

const serviceName = "placement-bff"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	redis          *redis.Client
	cms            *strapi.Client
	engine         *social.Engine
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	cache.InitRedis(cfg.RedisURL)

	cms := strapi.NewClient(strapi.ClientConfig{
		BaseURL:  cfg.CMSBaseURL,
		Timeout:  cfg.CMSTimeout,
		APIToken: cfg.CMSAPIToken,
	})

	server, err := NewServerWithDeps(cfg, cache.GetClient(), cms, cms)
	if err != nil {
		_ = cms.Close()
		return nil, err
	}
	server.cms = cms
	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case comments are cached in process and rate
// limiting fails open.
func NewServerWithDeps(cfg *config.Config, redisClient *redis.Client, posts social.PostStore, profiles social.ProfileStore) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if posts == nil {
		return nil, fmt.Errorf("post store is required")
	}

	var comments social.CommentCache
	if redisClient != nil {
		comments = cache.NewRedisCommentCache(redisClient, cfg.CommentCacheTTL)
	} else {
		comments = cache.NewMemoryCommentCache(cfg.CommentCacheTTL)
	}
	loader := social.NewCommentLoader(posts, comments, cfg.CommentPageSize)

	return &Server{
		config:         cfg,
		redis:          redisClient,
		engine:         social.NewEngine(posts, profiles, loader),
		promMiddleware: middleware.InitMetrics(serviceName),
	}, nil
}

// App builds the Fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ErrorHandler: errorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses carry CORS headers.
	origins := strings.Join(s.config.Origins(), ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "" && origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitedError("Too many requests, please try again later."))
		},
	}))

	app.Use(middleware.Session(middleware.SessionConfig{Secret: s.config.CMSJWTSecret}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "Placement BFF Metrics"}))

	nav := api.Group("/navigation")
	nav.Get("/:role", s.GetMenu)
	nav.Get("/:role/active", s.GetActiveKey)

	rate := func(resource string) fiber.Handler {
		return middleware.RateLimit(s.redis, s.config.LikeRateLimit, time.Minute, resource)
	}

	posts := api.Group("/posts")
	posts.Get("/:id/social", s.GetPostSocial)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/like", middleware.RequireSession(), rate("like"), s.ToggleLike)
	posts.Post("/:id/comments", middleware.RequireSession(), rate("comment"), s.CreateComment)

	users := api.Group("/users")
	users.Post("/:id/follow", middleware.RequireSession(), rate("follow"), s.ToggleFollow)

	api.Post("/validation/password", s.CheckPassword)
}

// Start listens on the configured port.
func (s *Server) Start() error {
	observability.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.App().Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			observability.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}
	if s.cms != nil {
		if err := s.cms.Close(); err != nil {
			observability.Logger.Error("error closing CMS client", slog.String("error", err.Error()))
		}
	}
	if s.redis != nil {
		closeRedis := s.redis.Close
		if s.redis == cache.GetClient() {
			closeRedis = cache.Close
		}
		if err := closeRedis(); err != nil {
			observability.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	observability.Logger.Info("Server shutdown complete")
	return nil
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the state of the cache. Redis is optional, so only a configured
// but unreachable Redis makes the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	redisStatus := "unavailable"
	status := fiber.StatusOK
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
			status = fiber.StatusServiceUnavailable
		}
	}

	overall := "healthy"
	if status != fiber.StatusOK {
		overall = "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   overall,
		"service":  serviceName,
		"redis":    redisStatus,
		"cms":      s.config.CMSBaseURL,
		"checked":  time.Now(),
		"env":      s.config.Env,
		"comments": fiber.Map{"page_size": s.engine.Comments().PageSize()},
	})
}
