package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/portfolio-importer/api/internal/config"
	"github.com/octobees/portfolio-importer/api/internal/database"
	"github.com/octobees/portfolio-importer/api/internal/extractor"
	"github.com/octobees/portfolio-importer/api/internal/gateway"
	"github.com/octobees/portfolio-importer/api/internal/handler"
	"github.com/octobees/portfolio-importer/api/internal/logging"
	middlewarepkg "github.com/octobees/portfolio-importer/api/internal/middleware"
	"github.com/octobees/portfolio-importer/api/internal/repository"
	"github.com/octobees/portfolio-importer/api/internal/router"
	"github.com/octobees/portfolio-importer/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	if cfg.AgentQL.APIKey == "" {
		logger.Warn("AGENTQL_API_KEY is empty, imports will be rejected upstream")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, logger)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(pool, logger); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	store := repository.NewStore(pool)
	agentql := gateway.NewClient(nil, cfg.GatewayConfig(), logger)
	portfolioExtractor := extractor.New(agentql, cfg.ExtractionParams(), logger)

	importService := service.NewPortfolioImportService(store, portfolioExtractor, logger)
	userService := service.NewUserService(store, cfg.DefaultPhoneRegion, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{
		Portfolio: handler.NewPortfolioHandler(importService, logger),
		Users:     handler.NewUserHandler(userService, logger),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.Port)
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
