// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"aura/internal/cache"
	"aura/internal/config"
	"aura/internal/database"
	"aura/internal/featureflags"
	"aura/internal/middleware"
	"aura/internal/models"
	"aura/internal/notifications"
	"aura/internal/repository"
	"aura/internal/service"
	"aura/internal/visibility"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// wireableHub is implemented by every WebSocket hub that can be wired to
// Redis pub/sub and gracefully shut down.
type wireableHub interface {
	Name() string
	StartWiring(ctx context.Context, n *notifications.Notifier) error
	Shutdown(ctx context.Context) error
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	listRepo    repository.ListRepository
	commentRepo repository.CommentRepository
	friendRepo  repository.FriendRepository
	accessRepo  repository.AccessRepository
	engRepo     repository.EngagementRepository
	hashtagRepo repository.HashtagRepository
	tagRepo     repository.TagRepository
	notifRepo   repository.NotificationRepository

	policy       *visibility.Policy
	notifier     *notifications.Notifier
	hub          *notifications.Hub
	hubs         []wireableHub
	featureFlags *featureflags.Manager

	userService    *service.UserService
	friendService  *service.FriendService
	collabService  *service.CollaborationService
	contentService *service.ContentService
	engService     *service.EngagementService
	ratingService  *service.RatingService
	commentService *service.CommentService
	modService     *service.ModerationService
	notifService   *service.NotificationService
	adminService   *service.AdminService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	listRepo := repository.NewListRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	accessRepo := repository.NewAccessRepository(db)
	engRepo := repository.NewEngagementRepository(db)
	hashtagRepo := repository.NewHashtagRepository(db)
	tagRepo := repository.NewTagRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	prom := middleware.InitMetrics("aura-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		postRepo:       postRepo,
		listRepo:       listRepo,
		commentRepo:    commentRepo,
		friendRepo:     friendRepo,
		accessRepo:     accessRepo,
		engRepo:        engRepo,
		hashtagRepo:    hashtagRepo,
		tagRepo:        tagRepo,
		notifRepo:      notifRepo,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	// Initialize notifier and hub if Redis is available
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
		server.hubs = []wireableHub{server.hub}
	}

	server.policy = visibility.NewPolicy(friendRepo, accessRepo, tagRepo)
	server.userService = service.NewUserService(userRepo, cfg.JWTSecret)
	server.friendService = service.NewFriendService(friendRepo, userRepo, notifRepo, server.notifier)
	server.collabService = service.NewCollaborationService(listRepo, accessRepo, userRepo, notifRepo, server.notifier, db)
	server.contentService = service.NewContentService(postRepo, listRepo, userRepo, tagRepo, hashtagRepo, notifRepo,
		server.policy, server.collabService, server.notifier, db)
	server.engService = service.NewEngagementService(engRepo, postRepo, notifRepo, server.policy, server.notifier)
	server.ratingService = service.NewRatingService(engRepo, userRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo, notifRepo, server.policy, server.notifier)
	server.modService = service.NewModerationService(engRepo, postRepo, notifRepo, server.policy, server.notifier,
		db, int64(cfg.FlagAutoRemoveAt))
	server.notifService = service.NewNotificationService(notifRepo)
	server.adminService = service.NewAdminService(db, time.Duration(cfg.AdminSessionTTLMinutes)*time.Minute)

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

	if s.config.TracingEnabled {
		app.Use(middleware.Tracing())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Admin-Token, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting per IP
	app.Use(limiter.New(limiter.Config{
		Max:        s.config.RateLimitPerMinute,
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
	// Backwards-compatible legacy route: map /health to readiness
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Aura Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public post routes (browse/search); the viewer is resolved from the
	// Authorization header when present so privacy filtering still applies.
	publicPosts := api.Group("/posts", middleware.OptionalAuth)
	publicPosts.Get("/", s.GetFeed)
	publicPosts.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id/rsvps", s.GetRSVPs)
	publicPosts.Get("/:id", s.GetPost)

	// Public hashtag routes
	hashtags := api.Group("/hashtags", middleware.OptionalAuth)
	hashtags.Get("/trending", s.GetTrendingHashtags)
	hashtags.Get("/:tag/posts", s.GetHashtagPosts)

	// Feature flag snapshot for the current (possibly anonymous) viewer
	api.Get("/feature-flags", middleware.OptionalAuth, s.GetFeatureFlags)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired, s.BannedUserGate())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/me/saved", s.GetSavedPosts)
	users.Get("/search", s.SearchUsers)
	users.Get("/", s.GetAllUsers)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id/aura", s.GetUserAura)
	users.Post("/:id/rate", s.RateUser)
	users.Get("/:id", s.GetUserProfile)

	// Friend routes
	friends := protected.Group("/friends")
	friends.Get("/", s.GetFriends)
	// Specific /requests routes before generic /:userId
	friends.Post("/requests/:userId", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	friends.Get("/requests", s.GetPendingRequests)
	friends.Get("/requests/sent", s.GetSentRequests)
	friends.Post("/requests/:requestId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:requestId/reject", s.RejectFriendRequest)
	// Specific /status routes before generic /:userId
	friends.Get("/status/:userId", s.GetFriendshipStatus)
	// Generic /:userId route must be last
	friends.Delete("/:userId", s.RemoveFriend)

	// Protected post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/save", s.SavePost)
	posts.Delete("/:id/save", s.UnsavePost)
	posts.Post("/:id/share", s.SharePost)
	posts.Post("/:id/repost", s.RepostPost)
	posts.Post("/:id/view", s.ViewPost)
	posts.Post("/:id/flag", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "flag_post"), s.FlagPost)
	posts.Post("/:id/rsvp", s.RSVPToPost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	posts.Put("/:id/comments/:commentId", s.UpdateComment)
	posts.Delete("/:id/comments/:commentId", s.DeleteComment)
	// Generic /:id routes (for item detail, update, delete)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// List routes
	lists := protected.Group("/lists")
	lists.Post("/", s.CreateList)
	lists.Get("/", s.GetMyLists)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	lists.Get("/:id/posts", s.GetListPosts)
	lists.Get("/:id/members", s.GetListMembers)
	lists.Post("/:id/invites", s.InviteToList)
	lists.Post("/:id/requests", s.RequestListAccess)
	lists.Get("/:id/requests", s.GetListAccessRequests)
	lists.Delete("/:id/members/:userId", s.RevokeListAccess)
	lists.Put("/:id", s.UpdateList)
	lists.Delete("/:id", s.DeleteList)
	lists.Get("/:id", s.GetList)

	// Invitation and access request responses live off the access rows
	invites := protected.Group("/invites")
	invites.Post("/:id/accept", s.AcceptListInvite)
	invites.Post("/:id/reject", s.RejectListInvite)
	accessRequests := protected.Group("/access-requests")
	accessRequests.Post("/:id/approve", s.ApproveListAccessRequest)
	accessRequests.Post("/:id/deny", s.DenyListAccessRequest)

	// Hashtag follow routes
	myHashtags := protected.Group("/hashtags")
	myHashtags.Get("/followed", s.GetFollowedHashtags)
	myHashtags.Post("/:tag/follow", s.FollowHashtag)
	myHashtags.Delete("/:tag/follow", s.UnfollowHashtag)

	// Notification routes
	notifs := protected.Group("/notifications")
	notifs.Get("/", s.GetNotifications)
	notifs.Get("/unread-count", s.GetUnreadCount)
	notifs.Post("/read-all", s.MarkAllNotificationsViewed)
	notifs.Post("/:id/read", s.MarkNotificationViewed)

	// Websocket endpoint for notification delivery
	ws := api.Group("/ws", middleware.WebSocketAuthRequired, s.BannedUserGate())
	ws.Get("/", s.WebsocketHandler())

	// Admin dashboard routes authenticate with their own session tokens,
	// never with user JWTs.
	api.Post("/admin/login", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "admin_login"), s.AdminLogin)
	admin := api.Group("/admin", s.AdminRequired())
	admin.Post("/logout", s.AdminLogout)
	admin.Get("/analytics", s.AdminAnalytics)
	admin.Get("/audit-log", s.AdminAuditTrail)
	admin.Get("/feature-flags", s.AdminFeatureFlags)
	admin.Post("/users/:id/ban", s.AdminBanUser)
	admin.Post("/users/:id/unban", s.AdminUnbanUser)
	admin.Delete("/posts/:id", s.AdminRemovePost)
	admin.Post("/actions/:id/reverse", s.AdminReverseAction)
	admin.Get("/review-queue", s.AdminReviewQueue)
	admin.Post("/review-queue/:id/assign", s.AdminAssignReview)
	admin.Post("/review-queue/:id/resolve", s.AdminResolveReview)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
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
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that authenticates admin dashboard
// requests via the X-Admin-Token header against the admin session store.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Admin-Token")
		admin, err := s.adminService.ValidateSession(c.Context(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		c.Locals("adminID", admin.ID)
		c.Locals("adminToken", token)
		return c.Next()
	}
}

// BannedUserGate rejects authenticated requests from suspended accounts so
// a ban takes effect immediately rather than when outstanding tokens expire.
func (s *Server) BannedUserGate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok || userID == 0 {
			return c.Next()
		}
		var banned bool
		err := s.db.WithContext(c.UserContext()).Model(&models.User{}).
			Select("is_banned").Where("id = ?", userID).Scan(&banned).Error
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if banned {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Account suspended"))
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Aura API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire all hubs to Redis subscriber if available
	if s.notifier != nil {
		for _, h := range s.hubs {
			h := h
			go func() {
				if err := h.StartWiring(s.shutdownCtx, s.notifier); err != nil {
					log.Printf("failed to start %s wiring: %v", h.Name(), err)
				}
			}()
		}
	}

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

	for _, h := range s.hubs {
		if err := h.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", h.Name(), err)
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
