package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/train-seat-reservation/internal/authz"
	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/database"
	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/logger"
	"github.com/iliyamo/train-seat-reservation/internal/middleware"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
	"github.com/iliyamo/train-seat-reservation/internal/router"
	"github.com/iliyamo/train-seat-reservation/internal/seed"
	"github.com/iliyamo/train-seat-reservation/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; config decides its shape.
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting", zap.String("config", cfg.String()))

	db, err := database.Open(database.Options{
		Driver:     cfg.DBDriver,
		User:       cfg.DBUser,
		Pass:       cfg.DBPass,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		Name:       cfg.DBName,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	trains := repository.NewTrainRepo(db)

	if _, err := seed.EnsureAdmin(ctx, users, cfg.AdminUsername, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		return err
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable: cache, rate limit and redis locks disabled")
	} else {
		defer rdb.Close()
	}

	bookingCfg := config.LoadBookingConfig()
	var locker service.Locker = service.NewLocalLocker(bookingCfg.LockStripes)
	if bookingCfg.Lock == config.LockRedis {
		if rdb != nil {
			locker = service.NewRedisLocker(rdb, "lock", bookingCfg.LockTTL)
		} else {
			log.Warn("BOOKING_LOCK=redis without redis; using in-process locks")
		}
	}

	var events service.EventPublisher
	if qcfg := config.LoadQueueConfig(); qcfg.Enabled {
		pub := queue.NewPublisher(qcfg.URL, log.Named("queue"))
		defer pub.Close()
		events = pub
	}

	policy, err := authz.NewPolicy(ctx)
	if err != nil {
		return err
	}

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	manager := service.NewBookingManager(service.BookingDeps{
		Trains:   trains,
		Ledger:   repository.NewLedger(db),
		Bookings: repository.NewBookingRepo(db),
		Locker:   locker,
		Events:   events,
	}, bookingCfg, log.Named("booking"))

	var invalidator service.CacheInvalidator
	if cache != nil {
		invalidator = cache
	}
	registry := service.NewTrainRegistry(trains, invalidator, log.Named("trains"))

	e := router.New(router.Deps{
		Log:       log.Named("http"),
		DB:        db,
		Auth:      handler.NewAuthHandler(cfg, users, repository.NewTokenRepo(db), log.Named("auth")),
		Bookings:  handler.NewBookingHandler(manager, service.NewAvailability(trains), registry, log.Named("bookings")),
		JWTSecret: cfg.JWTSecret,
		APIKey:    cfg.APIKey,
		Policy:    policy,
		Roles:     users,
		Cache:     cache,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.Named("ratelimit")),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
