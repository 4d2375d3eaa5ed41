package handler

import (
	"net/http"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"campusfound/internal/domain/entity"
	ws "campusfound/internal/infrastructure/websocket"
	"campusfound/internal/usecase"
	"campusfound/pkg/errors"
	"campusfound/pkg/response"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(wsManager *ws.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
	}
}

// HandleItemFeed upgrades the connection and registers the client on the
// live feed of one collection. search/category narrow what that client
// receives, mirroring the list endpoints.
func (h *WebSocketHandler) HandleItemFeed(c echo.Context) error {
	col, err := entity.ParseCollection(c.QueryParam("collection"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Unknown collection", err))
	}

	category := c.QueryParam("category")
	if category == "" {
		category = usecase.CategoryAll
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		ID:         uuid.New().String(),
		Collection: col,
		SearchTerm: c.QueryParam("search"),
		Category:   category,
		Conn:       conn,
		Send:       make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
