package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/admindash/internal/auth"
	"github.com/geocoder89/admindash/internal/cache"
	"github.com/geocoder89/admindash/internal/config"
	httpx "github.com/geocoder89/admindash/internal/http"
	"github.com/geocoder89/admindash/internal/http/handlers"
	"github.com/geocoder89/admindash/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port      int
		storeKind string
		cacheKind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != 0 {
				cfg.Port = port
			}
			if storeKind != "" {
				cfg.Store = storeKind
			}
			if cacheKind != "" {
				cfg.CacheBackend = cacheKind
			}
			return serve(cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides PORT)")
	cmd.Flags().StringVar(&storeKind, "store", "", "document store: mongo or memory (overrides STORE)")
	cmd.Flags().StringVar(&cacheKind, "cache", "", "list cache: memory, redis or none (overrides CACHE_BACKEND)")

	return cmd
}

func serve(cfg config.Config) error {
	log := observability.NewLogger(cfg.Env, cfg.LogFile)
	slog.SetDefault(log)

	ctx := context.Background()

	if cfg.TracingEnabled() {
		shutdown, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: cfg.ServiceName,
			Env:         cfg.Env,
			Endpoint:    cfg.OTLPEndpoint,
		})
		if err != nil {
			return err
		}
		defer func() {
			c, cancel := config.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := shutdown(c); err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	connectCtx, cancel := config.WithTimeout(ctx, cfg.ConnectTimeout+time.Second)
	be, err := openStores(connectCtx, cfg, log, prom)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := config.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := be.close(c); err != nil {
			log.Error("store disconnect failed", "err", err)
		}
	}()

	var draining atomic.Bool

	deps := httpx.Deps{
		Stores:         be.stores,
		Ping:           be.ping,
		ShuttingDown:   draining.Load,
		Prom:           prom,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	closeCache, err := wireCache(ctx, cfg, &deps)
	if err != nil {
		return err
	}
	defer closeCache()

	if cfg.AuthEnabled() {
		if err := wireAuth(cfg, &deps); err != nil {
			return err
		}
	} else {
		log.Warn("JWT_SECRET not set, /api routes are unauthenticated")
	}

	router := httpx.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store, "cache", cfg.CacheBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server failed", "err", err)
		return err
	case <-stop:
	}
	log.Info("server shutting down")
	draining.Store(true)

	shutdownCtx, cancelShutdown := config.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return err
	}

	log.Info("shutdown complete")
	return nil
}

func wireCache(ctx context.Context, cfg config.Config, deps *httpx.Deps) (func(), error) {
	switch cfg.CacheBackend {
	case "none", "":
		return func() {}, nil

	case "memory":
		deps.Cache = cache.New(cfg.CacheTTL)
		return func() {}, nil

	case "redis":
		rdb := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		r := cache.NewRedis(rdb, cfg.CacheTTL)

		c, cancel := config.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := r.Ping(c); err != nil {
			// keep serving, misses fall through to the store
			slog.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "err", err)
		}

		deps.Cache = r
		return func() { _ = r.Close() }, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q, want memory, redis or none", cfg.CacheBackend)
	}
}

func wireAuth(cfg config.Config, deps *httpx.Deps) error {
	deps.Tokens = auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		slog.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, login will reject every request")
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	deps.Admin = handlers.Admin{Email: cfg.AdminEmail, PasswordHash: hash}
	return nil
}
