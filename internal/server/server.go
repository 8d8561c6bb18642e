// Package server contains the HTTP handlers and routing for the catalog API.
package server

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"hikari/internal/bootstrap"
	"hikari/internal/cache"
	"hikari/internal/config"
	"hikari/internal/featureflags"
	"hikari/internal/middleware"
	"hikari/internal/models"
	"hikari/internal/repository"
	"hikari/internal/search"
	"hikari/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	flags          *featureflags.Manager
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo      repository.UserRepository
	showRepo      repository.ShowRepository
	episodeRepo   repository.EpisodeRepository
	bannerRepo    repository.BannerRepository
	reportRepo    repository.ReportRepository
	commentRepo   repository.CommentRepository
	tagRepo       repository.TagRepository
	bookmarkRepo  repository.BookmarkRepository
	historyRepo   repository.HistoryRepository
	clientLogRepo repository.ClientLogRepository

	searchIndex *search.Index

	showService         *service.ShowService
	episodeService      *service.EpisodeService
	viewService         *service.ViewService
	bannerService       *service.BannerService
	reportService       *service.ReportService
	commentService      *service.CommentService
	bookmarkService     *service.BookmarkService
	historyService      *service.HistoryService
	notificationService *service.NotificationService
	searchService       *service.SearchService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedBuiltIns: true})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		flags:          featureflags.NewManager(cfg.FeatureFlags),
		promMiddleware: middleware.InitMetrics("hikari-api"),
		userRepo:       repository.NewUserRepository(db),
		showRepo:       repository.NewShowRepository(db),
		episodeRepo:    repository.NewEpisodeRepository(db),
		bannerRepo:     repository.NewBannerRepository(db),
		reportRepo:     repository.NewReportRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		tagRepo:        repository.NewTagRepository(db),
		bookmarkRepo:   repository.NewBookmarkRepository(db),
		historyRepo:    repository.NewHistoryRepository(db),
		clientLogRepo:  repository.NewClientLogRepository(db),
		searchIndex:    search.NewIndex(),
	}

	deleter := repository.NewBatchDeleter(db, cfg.DeleteChunkSize)
	cooldown := cache.NewCooldown(redisClient)
	readSet := cache.NewReadSet(redisClient, cfg.NotifReadSetCap)

	server.showService = service.NewShowService(
		server.showRepo, server.episodeRepo, server.bookmarkRepo, server.tagRepo,
		deleter, server.searchIndex)
	server.episodeService = service.NewEpisodeService(
		server.episodeRepo, server.showRepo, deleter, server.showService)
	server.viewService = service.NewViewService(server.showRepo, cooldown, cfg.ViewThrottleWindow())
	server.bannerService = service.NewBannerService(server.bannerRepo, server.showRepo)
	server.reportService = service.NewReportService(server.reportRepo, server.episodeRepo)
	server.commentService = service.NewCommentService(
		server.commentRepo, server.showRepo, server.episodeRepo, server.userRepo)
	server.bookmarkService = service.NewBookmarkService(server.bookmarkRepo, server.showRepo)
	server.historyService = service.NewHistoryService(
		server.historyRepo, server.showRepo, server.episodeRepo)
	server.notificationService = service.NewNotificationService(
		server.bookmarkRepo, server.historyRepo, server.showRepo, readSet)
	server.searchService = service.NewSearchService(server.searchIndex, server.showRepo, cfg.SnapshotTTL())

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Tracing spans per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Client-Token",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (300 requests per minute per IP; browsing is chatty)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Hikari Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Post("/logout", s.Logout)

	// Public catalog routes
	shows := api.Group("/shows")
	shows.Get("/", s.GetShows)
	// Specific /:id/:resource routes BEFORE the generic /:id route
	shows.Get("/:id/episodes", s.GetShowEpisodes)
	shows.Get("/:id/comments", s.GetComments)
	shows.Post("/:id/view", s.RegisterView)
	shows.Get("/:id", s.GetShow)

	api.Get("/episodes/:id", s.GetEpisode)
	api.Get("/search/keywords", s.SearchKeywords)
	api.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "search"), s.SearchShows)
	api.Get("/banners", s.GetBanners)
	api.Get("/tags", s.GetTags)
	api.Get("/tags/:slug/shows", s.GetShowsByTag)

	// Broken-episode reports and client error logs accept anonymous posts.
	api.Post("/reports", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "report"), s.CreateReport)
	api.Post("/logs", middleware.RateLimit(
		s.redis, 20, time.Minute, "client_log"), s.CreateClientLog)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)

	protected.Post("/shows/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	protected.Delete("/comments/:id", s.DeleteComment)

	bookmarks := protected.Group("/bookmarks")
	bookmarks.Get("/", s.GetBookmarks)
	bookmarks.Get("/:showId", s.CheckBookmark)
	bookmarks.Post("/:showId", s.AddBookmark)
	bookmarks.Delete("/:showId", s.RemoveBookmark)

	history := protected.Group("/history")
	history.Get("/", s.GetHistory)
	history.Post("/", s.RecordProgress)
	history.Delete("/:showId", s.DeleteHistoryEntry)

	notifs := protected.Group("/notifications")
	notifs.Get("/", s.GetNotifications)
	notifs.Get("/unread-count", s.GetUnreadCount)
	notifs.Post("/read-all", s.MarkAllNotificationsRead)
	notifs.Post("/:key/read", s.MarkNotificationRead)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/dashboard", s.GetDashboard)

	admin.Get("/shows", s.GetAdminShows)
	admin.Post("/shows", s.CreateShow)
	admin.Put("/shows/:id", s.UpdateShow)
	admin.Delete("/shows/:id", s.DeleteShow)
	admin.Post("/shows/:id/episodes", s.CreateEpisode)
	admin.Put("/episodes/:id", s.UpdateEpisode)
	admin.Delete("/episodes/:id", s.DeleteEpisode)

	adminBanners := admin.Group("/banners")
	adminBanners.Get("/", s.GetAllBanners)
	adminBanners.Post("/", s.CreateBanner)
	adminBanners.Post("/reorder", s.ReorderBanners)
	adminBanners.Put("/:id", s.UpdateBanner)
	adminBanners.Delete("/:id", s.DeleteBanner)

	adminReports := admin.Group("/reports")
	adminReports.Get("/", s.GetReports)
	adminReports.Post("/:id/resolve", s.ResolveReport)

	admin.Post("/tags", s.CreateTag)
	admin.Delete("/tags/:id", s.DeleteTag)

	admin.Post("/search/rebuild", s.RebuildSearchIndex)
	admin.Get("/logs", s.GetClientLogs)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: every cache-backed feature degrades without it, so
	// its absence does not fail readiness.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database":     dbStatus,
			"redis":        redisStatus,
			"search_index": s.searchIndex.Built(),
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, ok := s.validateToken(c, tokenString)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// Store user ID in context
		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// validateToken parses a JWT and returns the user ID it carries.
func (s *Server) validateToken(c *fiber.Ctx, tokenString string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, false
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}

	// Check JTI for revocation
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		blacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
		if err == nil && blacklisted > 0 {
			return 0, false
		}
	}

	return uint(userID), true
}

// optionalUserID attempts to extract userID from the Authorization header but
// does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}
	return s.validateToken(c, parts[1])
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Hikari Catalog API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Build the search index in the background; searches fall back to the
	// keyword table until it is ready.
	go func() {
		if _, err := s.searchService.Rebuild(s.shutdownCtx, false); err != nil {
			log.Printf("initial search index build failed: %v", err)
		}
	}()

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
