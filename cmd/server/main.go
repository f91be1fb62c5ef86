package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/Yediy/daniacasino-sub001/internal/config"
	"github.com/Yediy/daniacasino-sub001/internal/database"
	"github.com/Yediy/daniacasino-sub001/internal/floor"
	"github.com/Yediy/daniacasino-sub001/internal/handler"
	"github.com/Yediy/daniacasino-sub001/internal/middleware"
	"github.com/Yediy/daniacasino-sub001/internal/notify"
	"github.com/Yediy/daniacasino-sub001/internal/queue"
	"github.com/Yediy/daniacasino-sub001/internal/repository"
	"github.com/Yediy/daniacasino-sub001/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()
	logger, err := config.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatalw("database connection failed", "error", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: rate limiting, response caching and the live feed
	// all degrade to no-ops when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warnw("redis unavailable; rate limiting, caching and live feed disabled")
	}

	store := repository.NewStore(db, cfg.StoreTimeout)

	dispatcher := notify.NewDispatcher(cfg.RabbitURL, logger)
	feed := notify.NewFeed(rdb, logger)

	ledger := floor.NewQueueLedger(store, feed, logger)
	holds := floor.NewSeatHoldManager(store, dispatcher, feed, logger, cfg.HoldTTL)
	claims := floor.NewSeatClaimCoordinator(store, holds, feed, logger)
	balancer := floor.NewTableBalancer(store, logger)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterFloor(e,
		handler.NewQueueHandler(ledger),
		handler.NewSeatHandler(holds, claims),
		handler.NewFloorHandler(store, balancer),
		cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.Port
		logger.Infow("http server starting", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return holds.RunSweeper(gctx, cfg.SweepInterval)
	})

	// Dev-only: drain notification triggers into logs/notify.log so the
	// full loop is observable without the real delivery service.
	if cfg.Env == "dev" {
		g.Go(func() error {
			return queue.StartNotifyConsumer(gctx, cfg.RabbitURL, logger)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalw("server exited with error", "error", err)
	}
	logger.Infow("server exited")
}
