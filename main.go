package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-amortizer/config"
	httpLayer "loan-amortizer/http"
	"loan-amortizer/logger"
	"loan-amortizer/repository"
	"loan-amortizer/service"
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var cache repository.CacheRepository
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			// Misses are recomputed, so the service stays usable without redis.
			log.Warn("redis unreachable, continuing without cache hits", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
		cache = redisCache
	default:
		cache = repository.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	log.Info("cache initialized", "backend", cfg.CacheBackend, "ttl", cfg.CacheTTL)

	loanService := service.NewLoanService(cache, cfg.CacheTTL, log)
	loanHandler := httpLayer.NewLoanHandler(loanService)

	termRecommendationService := service.NewTermRecommendationService(loanService)
	termRecommendationHandler := httpLayer.NewTermRecommendationHandler(termRecommendationService)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpLayer.NewRouter(loanHandler, termRecommendationHandler, rateLimiter, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("error starting server", "error", err)
		return
	case sig := <-quit:
		log.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("error during server shutdown", "error", err)
	}

	log.Info("server exited")
}
