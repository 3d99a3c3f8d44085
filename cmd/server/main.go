package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan-dani/FRA-GIS/internal/claims/handler"
	"github.com/aryan-dani/FRA-GIS/internal/claims/registry"
	"github.com/aryan-dani/FRA-GIS/internal/claims/store"
	"github.com/aryan-dani/FRA-GIS/internal/intake"
	"github.com/aryan-dani/FRA-GIS/internal/platform/config"
	"github.com/aryan-dani/FRA-GIS/internal/platform/httpserver"
	"github.com/aryan-dani/FRA-GIS/internal/platform/logger"
	"github.com/aryan-dani/FRA-GIS/internal/platform/metrics"
	"github.com/aryan-dani/FRA-GIS/internal/platform/middleware"
	platformredis "github.com/aryan-dani/FRA-GIS/internal/platform/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("store setup failed", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	dedup, err := openDeduper(ctx, cfg)
	if err != nil {
		log.Error("redis setup failed", "error", err.Error())
		os.Exit(1)
	}

	reg := registry.New(st, log, m)
	if err := reg.Refresh(ctx); err != nil {
		// The server still starts; the snapshot stays empty until the
		// store becomes reachable and a write or restart refreshes it.
		log.Warn("initial snapshot refresh failed", "error", err.Error())
	}

	proc := intake.NewProcessor(dedup, log, m)
	h := handler.New(reg, proc, log, cfg.MaxUploadBytes, cfg.DefaultPageSize)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Latency(m))
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting fra-gis server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}

// openStore picks the claims store from the environment: postgres when
// DATABASE_URL is set, the remote REST store when UPSTREAM_URL is set, and
// the in-memory store otherwise.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	case cfg.UpstreamURL != "":
		return store.NewREST(cfg.UpstreamURL, nil), func() {}, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}

// openDeduper returns the shared redis fingerprint index when REDIS_URL is
// set, and the in-process one otherwise.
func openDeduper(ctx context.Context, cfg config.Config) (intake.Deduper, error) {
	rdb, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		return intake.NewMemoryDeduper(), nil
	}
	return intake.NewRedisDeduper(rdb.Client, 0), nil
}
