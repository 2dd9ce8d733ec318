// Package main is the entry point for the pharmacy API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pharmacy/internal/app"
	"pharmacy/internal/config"
	"pharmacy/internal/domain/catalogs/medicine"
	v1 "pharmacy/internal/infrastructure/http/v1"
	"pharmacy/internal/infrastructure/http/v1/handlers"
	"pharmacy/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Infow("starting pharmacy server", "env", cfg.AppEnv)

	// --- Storage ---
	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()
	log.Infow("storage ready", "backend", backend.Name)

	checks := []handlers.Check{{Name: backend.Name, Ping: backend.Repos.Ping}}

	// --- Medicine cache ---
	var medicineCache medicine.Cache
	redisCache, closeCache, err := app.OpenCache(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to connect cache", "error", err)
	}
	defer closeCache()
	if redisCache != nil {
		medicineCache = redisCache
		checks = append(checks, handlers.Check{Name: "redis", Ping: redisCache.Ping})
		log.Infow("medicine cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.StockCacheTTL)
	}

	// --- Services ---
	services := app.NewServices(backend.Repos, cfg, medicineCache)
	if redisCache != nil {
		app.InvalidateOnCommit(services.Invoices, redisCache)
	}

	// --- Router ---
	mode := gin.DebugMode
	if cfg.IsProduction() {
		mode = gin.ReleaseMode
	}
	router := v1.NewRouter(v1.RouterConfig{
		Logger:   log,
		Services: services,
		Health:   handlers.NewHealthHandler(backend.Info, checks...),
		Mode:     mode,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port, "storage", backend.Name)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	if backend.Pool != nil {
		go logPoolStats(ctx, backend, 5*time.Minute)
	}

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func logPoolStats(ctx context.Context, backend *app.Backend, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		backend.Pool.LogStats(ctx)
	}
}
