package router

import (
	"github.com/labstack/echo/v4"

	"campusfound/internal/adapter/api/handler"
)

func SetupDashboardRouter(e *echo.Echo) {
	dashboardHandler := handler.GetDashboardHandler()
	e.GET("/v1/dashboard", dashboardHandler.GetStats)
}
