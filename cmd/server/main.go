package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dukkan/backend/internal/cache"
	"dukkan/backend/internal/config"
	"dukkan/backend/internal/httpapi"
	"dukkan/backend/internal/lock"
	"dukkan/backend/internal/logging"
	"dukkan/backend/internal/metrics"
	"dukkan/backend/internal/report"
	"dukkan/backend/internal/scheduler"
	"dukkan/backend/internal/service"
	"dukkan/backend/internal/store"
	"dukkan/backend/internal/store/boltstore"
	"dukkan/backend/internal/store/filestore"
	"dukkan/backend/internal/store/memory"
	pgstore "dukkan/backend/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	logFile := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, MaxSizeMB: cfg.LogMaxSizeMB})
	defer logFile.Close()

	if err := validateConfig(cfg); err != nil {
		fatal("invalid configuration", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 3)

	repo, err := openStore(ctx, cfg)
	if err != nil {
		fatal("store unavailable", err, "driver", cfg.StoreDriver)
	}
	closers = append(closers, repo.Close)
	slog.Info("store ready", "driver", cfg.StoreDriver)

	reportCache := cache.ReportCache(cache.NoopReportCache{})
	locker := lock.Locker(lock.NewLocal())
	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		redisCache := cache.NewRedisReportCache(client)
		if err := redisCache.Ping(ctx); err != nil {
			slog.Warn("redis unavailable, using noop cache and local locks", "error", err)
			_ = client.Close()
		} else {
			reportCache = redisCache
			locker = lock.NewRedis(client, "")
			closers = append(closers, redisCache.Close)
			slog.Info("cache: redis", "addr", cfg.RedisAddr)
		}
	} else {
		slog.Info("cache: noop")
	}

	m := metrics.New()
	loc := cfg.Location()
	reports := report.NewEngine(repo, reportCache, cfg.ReportCacheTTL())
	svc := service.New(repo, reports, service.Options{
		Location: loc,
		Pricing:  service.Pricing{USDLBP: cfg.USDLBP, Margin: cfg.Margin, Profit: cfg.Profit},
		Locker:   locker,
		Metrics:  m,
	})
	api := httpapi.New(svc, m, cfg.AllowedOrigin)

	var jobs *scheduler.Scheduler
	if cfg.PriceRecalcSchedule != "" {
		jobs = scheduler.New(svc, loc, service.JobCalculatePrices, service.JobUpdatePrices)
		if err := jobs.Schedule(cfg.PriceRecalcSchedule); err != nil {
			fatal("invalid PRICE_RECALC_SCHEDULE", err)
		}
		jobs.Start()
		slog.Info("price jobs scheduled", "schedule", cfg.PriceRecalcSchedule, "timezone", loc.String())
	}

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("POS backend listening", "addr", cfg.Address())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			slog.Error("price jobs did not stop", "error", err)
		}
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			slog.Error("close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func fatal(msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"error", err}, args...)...)
	os.Exit(1)
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.NewSeeded(), nil
	case config.DriverFile:
		return filestore.New(cfg.DataDir)
	case config.DriverBolt:
		return boltstore.New(cfg.BoltPath)
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		// refuse to start on a fallback store when a database was asked for
		return pgstore.New(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func validateConfig(cfg config.Config) error {
	switch cfg.StoreDriver {
	case config.DriverMemory, config.DriverFile, config.DriverBolt, config.DriverPostgres:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of file, bolt, postgres, memory; got %q", cfg.StoreDriver)
	}
	if cfg.USDLBP < 0 {
		return fmt.Errorf("USDLBP must not be negative")
	}
	if cfg.Margin < 0 || cfg.Profit < 0 {
		return fmt.Errorf("MARGIN and PROFIT must not be negative")
	}
	return nil
}
