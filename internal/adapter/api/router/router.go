package router

import (
	"github.com/labstack/echo/v4"

	"campusfound/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	SetupItemRouter(e, rateLimitMiddleware)
	SetupDashboardRouter(e)
	SetupWebSocketRouter(e)
	SetupHealthRouter(e)
}
