package router

import (
	"github.com/labstack/echo/v4"

	"campusfound/internal/adapter/api/handler"
	"campusfound/internal/adapter/api/middleware"
)

func SetupItemRouter(e *echo.Echo, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	itemHandler := handler.GetItemHandler()

	found := e.Group("/v1/found-items")
	found.GET("", itemHandler.ListFoundItems)
	found.GET("/:id", itemHandler.GetFoundItem)
	found.POST("", itemHandler.SubmitFoundItem, rateLimitMiddleware.Limit("submit_item"))

	lost := e.Group("/v1/lost-items")
	lost.GET("", itemHandler.ListLostItems)
	lost.GET("/:id", itemHandler.GetLostItem)
	lost.POST("", itemHandler.PostLostItem, rateLimitMiddleware.Limit("submit_item"))

	items := e.Group("/v1/items/:collection/:id")
	items.POST("/resolve", itemHandler.ResolveItem)
	items.POST("/report", itemHandler.ReportItem, rateLimitMiddleware.Limit("report_item"))
}
