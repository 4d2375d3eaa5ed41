package handler

import (
	ws "campusfound/internal/infrastructure/websocket"
	"campusfound/internal/usecase"
)

var (
	itemHandler      *ItemHandler
	dashboardHandler *DashboardHandler
	healthHandler    *HealthHandler
	wsHandler        *WebSocketHandler
)

func Setup(
	itemUseCase *usecase.ItemUseCase,
	dashboardUseCase *usecase.DashboardUseCase,
	wsManager *ws.Manager,
) {
	itemHandler = NewItemHandler(itemUseCase)
	dashboardHandler = NewDashboardHandler(dashboardUseCase)
	healthHandler = NewHealthHandler()
	wsHandler = NewWebSocketHandler(wsManager)
}

func GetItemHandler() *ItemHandler {
	return itemHandler
}

func GetDashboardHandler() *DashboardHandler {
	return dashboardHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return wsHandler
}
