package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/pratik-mahalle/ytgate/internal/api/handlers"
	"github.com/pratik-mahalle/ytgate/internal/api/router"
	"github.com/pratik-mahalle/ytgate/internal/auth"
	"github.com/pratik-mahalle/ytgate/internal/config"
	"github.com/pratik-mahalle/ytgate/internal/domain/paywall"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/ratelimit"
	"github.com/pratik-mahalle/ytgate/internal/pkg/validator"
	"github.com/pratik-mahalle/ytgate/internal/repository/postgres"
	"github.com/pratik-mahalle/ytgate/internal/services"
	"github.com/pratik-mahalle/ytgate/internal/worker"
	"github.com/pratik-mahalle/ytgate/internal/youtube"
	"github.com/pratik-mahalle/ytgate/migrations"
)

// @title ytgate API
// @version 1.0
// @description YouTube metadata proxy with an account gate and a free-tier quota.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.FatalWithErr(err, "Server exited with error")
	}
	log.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := migrations.Run(ctx, db, cfg.Database.Driver)
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.WithFields(map[string]interface{}{
			"driver":  cfg.Database.Driver,
			"applied": applied,
		}).Info("Database ready")
	}

	// Storage and domain services
	accountRepo := postgres.NewAccountRepository(db)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accountService := services.NewAccountService(accountRepo, tokens, cfg.Auth.BCryptCost, log)
	gate := services.NewEntitlementGate(accountRepo, cfg.Quota.FreeLimit, log)

	fetcher, err := youtube.NewFetcher(ctx, cfg.YouTube.Client, youtube.Options{
		BaseURL:      cfg.YouTube.BaseURL,
		Timeout:      cfg.YouTube.Timeout,
		MaxBodyBytes: cfg.YouTube.MaxBodyBytes,
	})
	if err != nil {
		return err
	}

	// Rate limiting
	var (
		limiter ratelimit.Limiter
		cleaner worker.Cleaner
	)
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Enabled {
			client, err := newRedisClient(cfg.Redis)
			if err != nil {
				return err
			}
			defer client.Close()
			limiter = ratelimit.NewRedisLimiter(client, cfg.Redis.KeyPrefix, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		} else {
			mem := ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
			limiter, cleaner = mem, mem
		}
		log.WithFields(map[string]interface{}{
			"store": limiter.Name(),
			"rps":   cfg.RateLimit.RequestsPerSecond,
			"burst": cfg.RateLimit.Burst,
		}).Info("Rate limiting enabled")
	}

	pw := paywall.NewPayload(cfg.Paywall.CheckoutURL)
	val := validator.New()

	h := &router.Handlers{
		Health:  handlers.NewHealthHandler(db, handlers.GateInfo{
			FreeLimit:   cfg.Quota.FreeLimit,
			YouTubeMode: cfg.YouTube.Client,
		}, log),
		Auth:    handlers.NewAuthHandler(accountService, log, val),
		Video:   handlers.NewVideoHandler(gate, fetcher, pw, log, val),
		Account: handlers.NewAccountHandler(accountService, cfg.Quota.FreeLimit, log),
		Paywall: handlers.NewPaywallHandler(pw),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h, router.Deps{Verifier: accountService, Limiter: limiter}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(map[string]interface{}{
			"addr":          srv.Addr,
			"environment":   cfg.Server.Environment,
			"youtube_mode":  cfg.YouTube.Client,
			"free_limit":    cfg.Quota.FreeLimit,
			"database_type": cfg.Database.Driver,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	if cfg.Worker.Enabled {
		sched := worker.NewScheduler(accountRepo, cleaner, cfg.Worker.CleanupSchedule, cfg.Worker.AccountsSchedule, log)
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}
