package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bbyte-app/backend/internal/auth"
	"github.com/bbyte-app/backend/internal/cache"
	"github.com/bbyte-app/backend/internal/config"
	"github.com/bbyte-app/backend/internal/database"
	"github.com/bbyte-app/backend/internal/events"
	"github.com/bbyte-app/backend/internal/handlers"
	"github.com/bbyte-app/backend/internal/logger"
	"github.com/bbyte-app/backend/internal/middleware"
	"github.com/bbyte-app/backend/internal/notifications"
	"github.com/bbyte-app/backend/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("Bbyte backend starting", zap.String("environment", cfg.Environment))

	if err := database.Initialize(cfg.DatabaseURL); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}
	authService := auth.NewService([]byte(cfg.JWTSecret))

	s3Uploader, err := storage.NewS3Uploader(cfg.AWSRegion, cfg.AWSBucket, cfg.CDNBaseURL)
	if err != nil {
		logger.Log.Fatal("Failed to initialize S3 uploader", zap.Error(err))
	}
	if err := s3Uploader.CheckBucketAccess(context.Background()); err != nil {
		logger.Log.Warn("S3 bucket access failed, uploads will fail", zap.Error(err))
	}

	if cfg.RedisHost != "" {
		if _, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword); err != nil {
			logger.Log.Warn("Redis unavailable, falling back to in-memory rate limiting", zap.Error(err))
		}
	}

	bus := events.NewBus(1024)
	notifications.NewListener().Register(bus)
	bus.Start(4)
	defer bus.Stop()

	h := handlers.NewHandlers(s3Uploader, bus)
	authHandlers := handlers.NewAuthHandlers(authService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "bbyte-backend",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authLimit := middleware.RedisRateLimitMiddleware(10, time.Minute)
	uploadLimit := middleware.RedisRateLimitMiddleware(20, time.Minute)
	if cache.GetRedisClient() == nil {
		authLimit = middleware.NewRateLimiter(middleware.AuthRateLimitConfig())
		uploadLimit = middleware.NewRateLimiter(middleware.UploadRateLimitConfig())
	}

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authLimit, authHandlers.Register)
			authGroup.POST("/login", authLimit, authHandlers.Login)
			authGroup.GET("/me", authHandlers.AuthMiddleware(), authHandlers.Me)
		}

		users := api.Group("/users")
		{
			users.Use(authHandlers.AuthMiddleware())
			users.GET("/search", h.SearchUsers)
			users.PUT("/me", h.UpdateMe)
			users.GET("/:username/profile", h.GetUserProfile)
			users.GET("/:username/followers", h.GetUserFollowers)
			users.GET("/:username/following", h.GetUserFollowing)
		}

		// Follow edges key on user id, not username, so they get their own
		// group to avoid clashing with the :username routes above.
		follow := api.Group("/follow")
		{
			follow.Use(authHandlers.AuthMiddleware())
			follow.POST("/:id", h.FollowUser)
			follow.DELETE("/:id", h.UnfollowUser)
		}
		api.GET("/followers", authHandlers.AuthMiddleware(), h.GetFollowers)
		api.GET("/following", authHandlers.AuthMiddleware(), h.GetFollowing)

		api.GET("/profiles", authHandlers.AuthMiddleware(), h.GetAllProfiles)
		api.GET("/stats", authHandlers.AuthMiddleware(), h.GetStats)

		posts := api.Group("/posts")
		{
			posts.Use(authHandlers.AuthMiddleware())
			posts.POST("", uploadLimit, h.CreatePost)
			posts.GET("", h.GetPosts)
			posts.GET("/feed", h.GetFeed)
			posts.DELETE("/:id", h.DeletePost)
			posts.POST("/:id/like", h.ToggleLikePost)
			posts.POST("/:id/comment", h.CreateComment)
			posts.GET("/:id/comments", h.GetPostComments)
			posts.POST("/:id/comments/:comment_id/reply", h.CreateReply)
			posts.GET("/user/:id", h.GetUserPosts)
		}

		comments := api.Group("/comments")
		{
			comments.Use(authHandlers.AuthMiddleware())
			comments.POST("/:id/like", h.ToggleLikeComment)
		}

		reports := api.Group("/reports")
		{
			reports.Use(authHandlers.AuthMiddleware())
			reports.POST("", uploadLimit, h.CreateReport)
			reports.GET("", h.ListReports)
			reports.PATCH("/:id", h.UpdateReportStatus)
		}

		notificationsGroup := api.Group("/notifications")
		{
			notificationsGroup.Use(authHandlers.AuthMiddleware())
			notificationsGroup.GET("", h.GetNotifications)
			notificationsGroup.POST("/read", h.MarkNotificationsRead)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
