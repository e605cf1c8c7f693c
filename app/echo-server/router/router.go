package router

import (
	"instaWin/internal/middleware"
	"instaWin/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupPlayRoutes(api *echo.Group, handler *rest.PlayHandler) {
	promotions := api.Group("/promotions", middleware.AuthMiddleware())
	promotions.POST("/:id/plays", handler.Play)
}

func SetupLeaderboardRoutes(api *echo.Group, handler *rest.LeaderboardHandler) {
	api.GET("/promotions/:id/leaderboard", handler.GetLeaderboard)
}

func SetupPromotionAdminRoutes(api *echo.Group, handler *rest.PromotionAdminHandler) {
	admin := api.Group("/admin/promotions", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.POST("", handler.CreatePromotion)
	admin.GET("", handler.ListPromotions)
	admin.PATCH("/:id/status", handler.UpdateStatus)
	admin.GET("/:id/stock", handler.GetStockSummary)
}

func SetupEngineAdminRoutes(api *echo.Group, handler *rest.EngineAdminHandler) {
	admin := api.Group("/admin/promotions", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.GET("/:id/engine-config", handler.GetConfig)
	admin.PUT("/:id/engine-config", handler.UpsertConfig)
	admin.GET("/:id/engine-config/evaluate", handler.Evaluate)
}

func SetupPrizeAdminRoutes(api *echo.Group, handler *rest.PrizeAdminHandler) {
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.POST("/promotions/:id/prizes", handler.CreatePrize)
	admin.POST("/prizes/:id/reset", handler.ResetStock)
	admin.DELETE("/prizes/:id", handler.DeletePrize)
}

func SetupTokenAdminRoutes(api *echo.Group, handler *rest.TokenAdminHandler) {
	admin := api.Group("/admin/promotions", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.POST("/:id/tokens", handler.IssueTokens)
}
