// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/senoni-research/vn2inventory/internal/api"
	"github.com/senoni-research/vn2inventory/internal/cache"
	"github.com/senoni-research/vn2inventory/internal/config"
	"github.com/senoni-research/vn2inventory/internal/repository/postgres"
	"github.com/senoni-research/vn2inventory/internal/service"
	"github.com/senoni-research/vn2inventory/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Order persistence is optional; the server computes orders either way.
	var orderService *service.OrderService
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("database unavailable, order persistence disabled")
		orderService = service.NewOrderService(nil)
	} else {
		defer db.Close()
		orderService = service.NewOrderService(postgres.NewOrderRepository(db))
	}

	backtestCache, err := cache.NewBacktestCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, running without it")
		backtestCache = cache.NewNoopBacktestCache()
	}
	backtestService := service.NewBacktestService(backtestCache)

	router := api.NewRouter(&api.Services{
		OrderService:    orderService,
		BacktestService: backtestService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
