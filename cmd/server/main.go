// Package main runs the event discovery and booking HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/devevent/backend/config"
	"github.com/devevent/backend/internal/auth"
	"github.com/devevent/backend/internal/bookings"
	"github.com/devevent/backend/internal/events"
	"github.com/devevent/backend/internal/server"
	"github.com/devevent/backend/pkg/cache"
	"github.com/devevent/backend/pkg/database"
	"github.com/devevent/backend/pkg/logger"
	"github.com/devevent/backend/pkg/queue"
	"github.com/devevent/backend/pkg/redis"
	"github.com/devevent/backend/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		zap.NewExample().Fatal("logger", zap.Error(err))
	}
	defer log.Sync()

	ctx := context.Background()
	db := database.NewManager(database.ManagerConfig{
		DSN:      cfg.Database.URL,
		MaxConns: cfg.Database.PoolSize(),
	}, log)
	defer db.Close()

	pool, err := db.Pool(ctx)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	// Redis backs the response cache and the confirmation queue; both are optional.
	var (
		responseCache *cache.Cache
		notifier      bookings.Notifier
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			log.Warn("redis disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			responseCache = cache.New(rdb.Client, "devevent", time.Duration(cfg.Redis.CacheTTL)*time.Second, log)
			notifier = queue.NewQueue(rdb.Client, log)
		}
	}

	var images events.ImageUploader
	if cfg.Images.Configured() {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.Images.Region,
			AccessKeyID:     cfg.Images.AccessKeyID,
			SecretAccessKey: cfg.Images.SecretKey,
			Bucket:          cfg.Images.Bucket,
			Endpoint:        cfg.Images.Endpoint,
			PublicBaseURL:   cfg.Images.PublicBaseURL,
		}, log)
		if err != nil {
			log.Warn("image storage disabled", zap.Error(err))
		} else {
			images = s3Client
		}
	} else {
		log.Warn("image storage not configured; event creation will fail")
	}

	eventRepo := events.NewRepository(db)
	bookingRepo := bookings.NewRepository(db)

	deps := server.Deps{
		Events:             events.NewHandler(eventRepo, images, bookingRepo, responseCache, cfg.Images.Folder, log),
		Bookings:           bookings.NewHandler(bookingRepo, notifier, log),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:             log,
	}
	if cfg.Auth.OrganizerSecret != "" {
		deps.Tokens = auth.NewJWTService(cfg.Auth.OrganizerSecret, auth.DefaultTTL)
	}
	router := server.NewRouter(deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
