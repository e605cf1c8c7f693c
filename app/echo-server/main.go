package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"instaWin/app/echo-server/router"
	"instaWin/business/engine"
	"instaWin/business/leaderboard"
	tokenService "instaWin/business/token"
	"instaWin/internal/middleware"
	psqlRepo "instaWin/internal/repository/postgres"
	redisRepo "instaWin/internal/repository/redis"
	"instaWin/internal/rest"
	"instaWin/pkg/config"
	"instaWin/pkg/database"
	redisdb "instaWin/pkg/database/redis"
	"instaWin/pkg/logger"
	"instaWin/pkg/metrics"
	"instaWin/pkg/utils"

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
	logger.Info("Starting InstaWin engine", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer func() {
		_ = redisdb.CloseRedisClient(redisClient)
	}()

	// Init repo
	promoRepo := psqlRepo.NewPromotionRepository(db)
	tokenRepo := psqlRepo.NewTokenRepository(db)
	prizeRepo := psqlRepo.NewPrizeRepository(db)
	playRepo := psqlRepo.NewPlayRepository(db)
	engineCfgRepo := psqlRepo.NewEngineConfigRepository(db)
	leaderboardCache := redisRepo.NewLeaderboardCache(redisClient)

	// Init service
	engineService := engine.NewEngineService(
		promoRepo,
		tokenRepo,
		prizeRepo,
		playRepo,
		engineCfgRepo,
		engine.DefaultConfig(),
	)
	leaderboardService := leaderboard.NewLeaderboardService(playRepo, leaderboardCache)
	tokenSvc := tokenService.NewTokenService(tokenRepo, promoRepo)

	// Init handler
	playHandler := rest.NewPlayHandler(engineService)
	leaderboardHandler := rest.NewLeaderboardHandler(leaderboardService)
	engineAdminHandler := rest.NewEngineAdminHandler(engineCfgRepo, engineService)
	promotionAdminHandler := rest.NewPromotionAdminHandler(promoRepo, prizeRepo)
	prizeAdminHandler := rest.NewPrizeAdminHandler(prizeRepo)
	tokenAdminHandler := rest.NewTokenAdminHandler(tokenSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupPlayRoutes(api, playHandler)
	router.SetupLeaderboardRoutes(api, leaderboardHandler)
	router.SetupEngineAdminRoutes(api, engineAdminHandler)
	router.SetupPromotionAdminRoutes(api, promotionAdminHandler)
	router.SetupPrizeAdminRoutes(api, prizeAdminHandler)
	router.SetupTokenAdminRoutes(api, tokenAdminHandler)

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

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
