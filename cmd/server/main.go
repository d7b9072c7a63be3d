package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"propertycare/backend/config"
	"propertycare/backend/internal/api/handler"
	"propertycare/backend/internal/api/router"
	"propertycare/backend/internal/queue"
	"propertycare/backend/internal/repository"
	"propertycare/backend/internal/service"
	"propertycare/backend/pkg/database"
	"propertycare/backend/pkg/jwt"
	"propertycare/backend/pkg/logger"
	"propertycare/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, log); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	// Redis is optional: without it logout falls back to client-side
	// token disposal.
	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, token blacklist disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// The broker is optional too: no URL, no events.
	var events service.EventPublisher
	var consumer *queue.Consumer
	if cfg.Broker.URL != "" {
		publisher, err := queue.NewPublisher(&cfg.Broker, log)
		if err != nil {
			log.Warn("broker unavailable, lifecycle events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			events = publisher

			consumer, err = queue.NewConsumer(&cfg.Broker, log)
			if err != nil {
				log.Warn("broker consumer unavailable", zap.Error(err))
			} else {
				defer consumer.Close()
			}
		}
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, events, log)
	h := handler.NewHandler(svc, log)
	engine := router.New(cfg, h, jwtMgr, rdb, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if consumer != nil {
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("event consumer stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
