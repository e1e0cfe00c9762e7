// Package main runs the background job worker (booking confirmation emails).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/devevent/backend/config"
	"github.com/devevent/backend/internal/events"
	"github.com/devevent/backend/internal/worker"
	"github.com/devevent/backend/pkg/database"
	"github.com/devevent/backend/pkg/logger"
	"github.com/devevent/backend/pkg/mailer"
	"github.com/devevent/backend/pkg/queue"
	"github.com/devevent/backend/pkg/redis"
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

	if cfg.Redis.Addr == "" {
		log.Fatal("worker requires REDIS_ADDR")
	}

	ctx := context.Background()
	db := database.NewManager(database.ManagerConfig{
		DSN:      cfg.Database.URL,
		MaxConns: cfg.Database.PoolSize(),
	}, log)
	defer db.Close()
	if _, err := db.Pool(ctx); err != nil {
		log.Fatal("database", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	m, err := mailer.New(mailer.Config{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: mailer.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccessKey,
		},
	}, log)
	if err != nil {
		log.Fatal("mailer", zap.Error(err))
	}

	jobQueue := queue.NewQueue(rdb.Client, log)
	processor := worker.NewBookingConfirmationProcessor(events.NewRepository(db), m, jobQueue, cfg.Server.PublicURL, log)

	workerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		processor.Run(workerCtx)
		close(done)
	}()
	log.Info("worker started", zap.String("email_provider", cfg.Email.Provider))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		log.Warn("worker did not stop in time")
	}
	log.Info("worker stopped")
}
