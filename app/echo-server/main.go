package main

import (
	"context"
	"fmt"
	"log"
	"myLeadMarket/app/echo-server/metrics"
	"myLeadMarket/app/echo-server/router"
	"myLeadMarket/business/features"
	"myLeadMarket/business/scoring"
	"myLeadMarket/internal/middleware"
	"myLeadMarket/internal/repository/memcache"
	"myLeadMarket/internal/repository/modelstore"
	psqlRepo "myLeadMarket/internal/repository/postgres"
	"myLeadMarket/internal/rest"
	"myLeadMarket/pkg/config"
	"myLeadMarket/pkg/database"
	"myLeadMarket/pkg/logger"
	"myLeadMarket/pkg/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Lead Scoring API", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Init repo
	configStore := psqlRepo.NewVerticalConfigRepository(db)
	modelLoader := modelstore.NewLoader()
	cacheTTL := time.Duration(cfg.Model.CacheTTLSeconds) * time.Second
	modelCache := memcache.NewModelCache(cacheTTL)
	transformCache := memcache.NewTransformCache(cacheTTL)

	// Init service
	scoringService := scoring.NewService(scoring.Deps{
		Loader:         modelLoader,
		ModelCache:     modelCache,
		TransformCache: transformCache,
		Importance:     features.NewImportanceTracker(),
		ConfigStore:    configStore,
		ModelBasePath:  cfg.Model.BasePath,
	}, cfg.Model.MaxLeadBytes)

	// Init handler
	scoringHandler := rest.NewScoringHandler(scoringService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit("100K"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	metrics.Init()
	e.Use(metrics.Middleware())

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupScoringRoutes(api, scoringHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
