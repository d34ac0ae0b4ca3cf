// Package server contains the HTTP handlers for the blog API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ecoblog/internal/auth"
	"ecoblog/internal/cache"
	"ecoblog/internal/config"
	"ecoblog/internal/database"
	"ecoblog/internal/middleware"
	"ecoblog/internal/models"
	"ecoblog/internal/observability"
	"ecoblog/internal/repository"
	"ecoblog/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Write throttles applied per viewer.
const (
	createPostLimit     = 5
	createPostWindow    = 5 * time.Minute
	createCommentLimit  = 10
	createCommentWindow = time.Minute
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	verifier       auth.Verifier
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	postService    *service.PostService
	commentService *service.CommentService
	userService    *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	verifier, err := NewVerifier(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("identity verifier: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.NewClient(ctx, cfg.RedisURL), verifier)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case write throttling is disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, verifier auth.Verifier) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if verifier == nil {
		return nil, errors.New("identity verifier is required")
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		verifier:       verifier,
		promMiddleware: middleware.InitMetrics("ecoblog-api"),
		postService:    service.NewPostService(repository.NewPostRepository(db)),
		commentService: service.NewCommentService(repository.NewCommentRepository(db)),
		userService:    service.NewUserService(repository.NewUserRepository(db)),
	}, nil
}

// NewVerifier builds the identity verifier selected by AUTH_PROVIDER.
func NewVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderJWT:
		return auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience), nil
	case config.AuthProviderFirebase, "":
		return auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.AuthProvider)
	}
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ecoblog API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler answers errors that escaped the handlers, typically Fiber's own
// 404/405 and panics caught by recover.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	observability.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware installs the global middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Tracing before the context middleware so the trace id reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so throttled responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
				Code:  models.CodeRateLimited,
			})
		},
	}))
}

// SetupRoutes registers health, metrics and API routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api", middleware.Authenticate(s.verifier, s.userService))
	requireViewer := middleware.RequireViewer()

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Post("/", requireViewer,
		middleware.RateLimit(s.redis, createPostLimit, createPostWindow, "create_post"),
		s.CreatePost)
	posts.Get("/:id", s.GetPost)
	posts.Post("/:id/like", requireViewer, s.TogglePostLike)

	posts.Get("/:id/comments", s.ListComments)
	posts.Post("/:id/comments", requireViewer,
		middleware.RateLimit(s.redis, createCommentLimit, createCommentWindow, "create_comment"),
		s.CreateComment)
	posts.Post("/:postId/comments/:commentId/like", requireViewer, s.ToggleCommentLike)
}

// LivenessCheck reports that the process is serving requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck pings the database and, when configured, Redis.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only backs throttling; running without it is a supported mode.
	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// Start builds the app and listens on the configured port until shut down.
func (s *Server) Start() error {
	s.app = s.App()
	observability.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("sql DB: %w", cerr))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			errs = append(errs, fmt.Errorf("redis: %w", rerr))
		}
	}

	observability.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}
