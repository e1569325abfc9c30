// Package main runs the contents backend HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jmk-contents/backend/config"
	"github.com/jmk-contents/backend/internal/ads"
	"github.com/jmk-contents/backend/internal/apps"
	"github.com/jmk-contents/backend/internal/auth"
	"github.com/jmk-contents/backend/internal/concepts"
	"github.com/jmk-contents/backend/internal/contacts"
	"github.com/jmk-contents/backend/internal/dashboard"
	"github.com/jmk-contents/backend/internal/lectures"
	"github.com/jmk-contents/backend/internal/middleware"
	"github.com/jmk-contents/backend/internal/worker"
	"github.com/jmk-contents/backend/pkg/database"
	"github.com/jmk-contents/backend/pkg/queue"
	"github.com/jmk-contents/backend/pkg/redis"
	"github.com/jmk-contents/backend/pkg/response"
	"github.com/jmk-contents/backend/pkg/storage"
	"github.com/jmk-contents/backend/pkg/utils"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ImagesBucket:         cfg.AWS.ImagesBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		hash, err := utils.HashPassword(cfg.Admin.Password)
		if err != nil {
			logger.Fatal("hash admin password", zap.Error(err))
		}
		if err := authRepo.EnsureAdmin(ctx, cfg.Admin.Email, hash); err != nil {
			logger.Fatal("bootstrap admin", zap.Error(err))
		}
	}

	// Apps (plus cascade delete of app content)
	appRepo := apps.NewRepository(pool)
	cascade := apps.NewCascadeDeleter(appRepo, logger)
	appHandler := apps.NewHandler(appRepo, cascade, s3Client, logger)

	// Concepts
	conceptRepo := concepts.NewRepository(pool)
	conceptHandler := concepts.NewHandler(conceptRepo, appRepo, logger)

	// Lectures
	lectureRepo := lectures.NewRepository(pool)
	lectureHandler := lectures.NewHandler(lectureRepo, appRepo, logger)

	// Affiliate ads (targeting, A/B standings, tracking)
	adRepo := ads.NewRepository(pool)
	adHandler := ads.NewHandler(adRepo, s3Client, jobQueue, logger)
	trackingProcessor := worker.NewTrackingProcessor(adRepo, jobQueue, logger)

	// Contact submissions
	contactRepo := contacts.NewRepository(pool)
	contactHandler := contacts.NewHandler(contactRepo, logger)

	// Dashboard summary
	dashboardHandler := dashboard.NewHandler(appRepo, conceptRepo, lectureRepo, adRepo, contactRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public content API (consumed by the mobile apps and marketing site)
	router.GET("/apps", appHandler.ListPublished)
	router.GET("/apps/featured", appHandler.ListFeatured)
	router.GET("/apps/:bundle_id", appHandler.GetByBundleID)
	router.GET("/apps/:bundle_id/concepts", conceptHandler.ListByApp)
	router.GET("/apps/:bundle_id/lectures", lectureHandler.ListByApp)
	router.GET("/apps/:bundle_id/ads", adHandler.ServeForApp)
	router.POST("/apps/:bundle_id/download", appHandler.TrackDownload)
	router.POST("/ads/:id/impression", adHandler.TrackImpression)
	router.POST("/ads/:id/click", adHandler.TrackClick)
	router.POST("/contact", contactHandler.Submit)

	// Auth (public)
	router.POST("/auth/login", authHandler.Login)

	// Admin dashboard API (JWT required)
	admin := router.Group("/admin")
	admin.Use(middleware.JWT(jwtService), middleware.RequireRole("admin", "editor"))
	{
		admin.GET("/summary", dashboardHandler.Summary)

		admin.GET("/users", middleware.RequireRole("admin"), authHandler.List)
		admin.POST("/users", middleware.RequireRole("admin"), authHandler.Create)

		admin.GET("/apps", appHandler.ListAll)
		admin.POST("/apps", appHandler.Create)
		admin.PATCH("/apps/:bundle_id", appHandler.Update)
		admin.POST("/apps/:bundle_id/upload-icon", appHandler.UploadIcon)
		admin.DELETE("/apps/:bundle_id", middleware.RequireRole("admin"), appHandler.Delete)

		admin.GET("/concepts", conceptHandler.ListAll)
		admin.POST("/concepts", conceptHandler.Create)
		admin.PATCH("/concepts/:id", conceptHandler.Update)
		admin.DELETE("/concepts/:id", conceptHandler.Delete)

		admin.GET("/lectures", lectureHandler.ListAll)
		admin.POST("/lectures", lectureHandler.Create)
		admin.PATCH("/lectures/:id", lectureHandler.Update)
		admin.DELETE("/lectures/:id", lectureHandler.Delete)

		admin.GET("/ads", adHandler.List)
		admin.POST("/ads", adHandler.Create)
		admin.PATCH("/ads/:id", adHandler.Update)
		admin.PATCH("/ads/:id/toggle", adHandler.Toggle)
		admin.DELETE("/ads/:id", adHandler.Delete)
		admin.POST("/ads/upload-image", adHandler.UploadImage)
		admin.POST("/ads/generate-upload-url", adHandler.GenerateUploadURL)
		admin.GET("/experiments", adHandler.Experiments)

		admin.GET("/contacts", contactHandler.List)
		admin.PATCH("/contacts/:id/status", contactHandler.UpdateStatus)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (ad impression/click counters)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go trackingProcessor.Run(workerCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
