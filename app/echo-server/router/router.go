package router

import (
	"myLeadMarket/internal/middleware"
	"myLeadMarket/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupScoringRoutes(api *echo.Group, handler *rest.ScoringHandler) {
	scoring := api.Group("/scoring", middleware.AuthMiddleware())

	scoring.POST("/score", handler.Score)
	scoring.GET("/model-info", handler.ModelInfo)

	scoring.POST("/reload", handler.Reload, middleware.AdminOnly())
	scoring.POST("/threshold", handler.UpdateThreshold, middleware.AdminOnly())
	scoring.PUT("/config", handler.UpdateConfig, middleware.AdminOnly())
}
