package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hotelledger/backend/internal/analyzer"
	"hotelledger/backend/internal/cache"
	"hotelledger/backend/internal/config"
	"hotelledger/backend/internal/costing"
	"hotelledger/backend/internal/httpapi"
	"hotelledger/backend/internal/logger"
	"hotelledger/backend/internal/service"
	"hotelledger/backend/internal/store"
	"hotelledger/backend/internal/store/memory"
	pgstore "hotelledger/backend/internal/store/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not read .env: %v", err)
	}

	cfg := config.Load()
	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := validateConfig(cfg); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			zl.Fatal("postgres unavailable and DATABASE_URL is set; refusing to start with in-memory fallback", zap.Error(err))
		}
		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx); err != nil {
				zl.Fatal("migration failed", zap.Error(err))
			}
		}
		repo = pg
		closers = append(closers, pg.Close)
		zl.Info("repository ready", zap.String("backend", "postgres"))
	} else {
		repo = memory.NewSeeded()
		zl.Info("repository ready", zap.String("backend", "memory"), zap.Int("seed_days", memory.SeedDays))
	}

	reports := cache.ReportCache(cache.NoopReportCache{})
	if cfg.RedisAddr != "" && cfg.ReportCacheTTLSeconds > 0 {
		redisCache := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			zl.Warn("redis unavailable, using noop cache", zap.Error(err))
			_ = redisCache.Close()
		} else {
			reports = redisCache
			closers = append(closers, redisCache.Close)
			zl.Info("report cache ready", zap.String("backend", "redis"), zap.Duration("ttl", cfg.ReportCacheTTL()))
		}
	} else {
		zl.Info("report cache ready", zap.String("backend", "noop"))
	}

	svc := service.New(repo, reports, zl, serviceOptions(cfg))
	api := httpapi.New(svc, cfg.AllowedOrigin, zl)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zl.Info("hotel P&L backend listening", zap.String("addr", cfg.Address()), zap.String("timezone", cfg.ReportTimezone))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown error", zap.Error(err))
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			zl.Error("close error", zap.Error(err))
		}
	}

	zl.Info("server stopped")
}

func serviceOptions(cfg config.Config) service.Options {
	return service.Options{
		FallbackRate: cfg.COGSFallbackRate,
		Registry:     costing.DefaultRegistry(cfg.SpaMargin, cfg.FrontOfficeMargin),
		Thresholds: analyzer.Thresholds{
			MaxMassGrams:     cfg.MaxMassGrams,
			MaxVolumeML:      cfg.MaxVolumeML,
			MaxCount:         cfg.MaxCountUnits,
			MinMarginPercent: cfg.MinMarginPercent,
		},
		Location:         cfg.Location(),
		ExcludedStatuses: cfg.ExcludedOrderStatuses,
		CacheTTL:         cfg.ReportCacheTTL(),
	}
}

// validateConfig rejects settings that are unsafe outside development.
func validateConfig(cfg config.Config) error {
	if cfg.Env == "production" && cfg.AllowedOrigin == "*" {
		return fmt.Errorf("ALLOWED_ORIGIN must name an origin in production")
	}
	if cfg.MinMarginPercent >= 100 {
		return fmt.Errorf("MIN_MARGIN_PERCENT must be below 100, got %v", cfg.MinMarginPercent)
	}
	for _, status := range cfg.ExcludedOrderStatuses {
		if status == "completed" {
			return fmt.Errorf("EXCLUDED_ORDER_STATUSES must not exclude completed orders")
		}
	}
	return nil
}
