package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"momodash/internal/amqp"
	"momodash/internal/auth"
	"momodash/internal/backend"
	"momodash/internal/cache"
	"momodash/internal/cli"
	"momodash/internal/config"
	"momodash/internal/dataset"
	apphttp "momodash/internal/http"
	applog "momodash/internal/log"
	"momodash/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentApp, (*config.Config).Validate)
	if err := run(cfg, logger); err != nil {
		logger.ErrorContext(context.Background(), "Dashboard exited with error", applog.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, stop := cli.SignalContext(logger)
	defer stop()

	var cleanups cli.Cleanups
	defer cleanups.Release(logger, shutdownTimeout)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	src, err := backend.NewFactory(logger.Logger).CreateSource(ctx, bcfg)
	if err != nil {
		return err
	}
	if src.Cleanup != nil {
		cleanups.Add(func(context.Context) error { return src.Cleanup() })
	}

	store, err := dataset.Load(ctx, src.Source)
	if err != nil {
		return err
	}

	gate, err := auth.NewGate(auth.Credentials{Username: cfg.AuthUsername, Password: cfg.AuthPassword})
	if err != nil {
		return err
	}
	secret, err := sessionSecret(ctx, cfg, logger)
	if err != nil {
		return err
	}
	codec, err := auth.NewSessionCodec(secret, cfg.SecureCookies)
	if err != nil {
		return err
	}

	var checks []apphttp.ReadyCheck
	if src.Ping != nil {
		checks = append(checks, apphttp.ReadyCheck{Name: bcfg.Type.String(), Check: src.Ping})
	}

	viewCache, check, stopCache, err := newViewCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	cleanups.Add(stopCache)
	if check != nil {
		checks = append(checks, *check)
	}

	var audit services.AuditPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Login keeps working without the audit trail.
			logger.WithComponent(applog.ComponentAMQP).WarnContext(ctx, "Login audit disabled", applog.FieldError, err)
		} else {
			audit = client
			cleanups.Add(func(context.Context) error { return client.Close() })
		}
	}
	login := services.NewLoginService(gate, audit)

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:            ":" + cfg.Port,
		Logger:          logger,
		Dashboard:       services.NewDashboardService(store, viewCache),
		Login:           login,
		Sessions:        codec,
		LiveMinInterval: cfg.LiveMinInterval,
		ReadyChecks:     checks,
		TrustedProxies:  cfg.TrustedProxies,
	})
	if err != nil {
		return err
	}

	// HTTP first, then pending audit publishes, then the rest.
	steps := append([]func(context.Context) error{
		srv.Shutdown,
		func(context.Context) error { login.Wait(); return nil },
	}, cleanups.HandOff()...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "Starting momodash server", "port", cfg.Port, "backend", cfg.DataBackend, "rows", store.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return cli.GracefulShutdown(logger, shutdownTimeout, steps...)
	})
	return g.Wait()
}

// sessionSecret falls back to a random per-process secret, which logs
// everyone out on restart.
func sessionSecret(ctx context.Context, cfg *config.Config, logger *applog.Logger) ([]byte, error) {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	logger.WithComponent(applog.ComponentAuth).WarnContext(ctx, "SESSION_SECRET not set, generated an ephemeral secret")
	return secret, nil
}

// newViewCache prefers Redis when REDIS_URL is set and falls back to the
// in-process LRU.
func newViewCache(ctx context.Context, cfg *config.Config, logger *applog.Logger) (cache.Cache[services.Dashboard], *apphttp.ReadyCheck, func(context.Context) error, error) {
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.WithComponent(applog.ComponentCache).InfoContext(ctx, "Using Redis dashboard cache", "ttl", cfg.CacheTTL)
		check := &apphttp.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error { return client.Ping(ctx).Err() }}
		return cache.NewRedisCache[services.Dashboard](client, "momodash:dashboard:", cfg.CacheTTL), check,
			func(context.Context) error { return client.Close() }, nil
	}

	lru := cache.NewLRUCache[services.Dashboard](cfg.CacheSize, cfg.CacheTTL)
	manager := cache.NewManager()
	manager.Register(lru)
	manager.StartCleanup(cfg.CacheTTL)
	logger.WithComponent(applog.ComponentCache).InfoContext(ctx, "Using in-process dashboard cache", "size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	return lru, nil, func(context.Context) error { manager.Stop(); return nil }, nil
}
