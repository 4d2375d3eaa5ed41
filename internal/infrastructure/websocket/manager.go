package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"campusfound/internal/domain/entity"
	"campusfound/pkg/logger"
)

// FilterFunc narrows a snapshot to one client's search term and category
// selector before it goes out on the wire.
type FilterFunc func(items []entity.Item, searchTerm, category string) []entity.Item

// Client represents one WebSocket connection watching a collection.
type Client struct {
	ID         string
	Collection entity.Collection
	SearchTerm string
	Category   string
	Conn       *websocket.Conn
	Send       chan []byte
}

type snapshotMessage struct {
	Type       string            `json:"type"`
	Collection entity.Collection `json:"collection"`
	Items      []entity.Item     `json:"items"`
}

type collectionSnapshot struct {
	collection entity.Collection
	items      []entity.Item
}

// Manager fans full collection snapshots out to the connected clients.
type Manager struct {
	clients    map[entity.Collection]map[*Client]struct{}
	latest     map[entity.Collection][]entity.Item
	Register   chan *Client
	Unregister chan *Client
	snapshots  chan collectionSnapshot
	filter     FilterFunc
	mutex      sync.RWMutex
}

func NewManager(filter FilterFunc) *Manager {
	return &Manager{
		clients: map[entity.Collection]map[*Client]struct{}{
			entity.CollectionFoundItems: {},
			entity.CollectionLostItems:  {},
		},
		latest:     make(map[entity.Collection][]entity.Item),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		snapshots:  make(chan collectionSnapshot, 8),
		filter:     filter,
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.Collection][client] = struct{}{}
				items, seeded := m.latest[client.Collection]
				m.mutex.Unlock()
				logger.Debug("Feed client registered: %s (%s)", client.ID, client.Collection)

				// A late joiner gets the current snapshot right away;
				// until the first snapshot arrives it stays in the
				// loading state.
				if seeded {
					m.send(client, items)
				}

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.Collection][client]; ok {
					delete(m.clients[client.Collection], client)
					close(client.Send)
				}
				m.mutex.Unlock()
				logger.Debug("Feed client unregistered: %s", client.ID)

			case snap := <-m.snapshots:
				m.mutex.Lock()
				m.latest[snap.collection] = snap.items
				clients := make([]*Client, 0, len(m.clients[snap.collection]))
				for client := range m.clients[snap.collection] {
					clients = append(clients, client)
				}
				m.mutex.Unlock()

				for _, client := range clients {
					m.send(client, snap.items)
				}

			case <-ctx.Done():
				return
			}
		}
	}()
}

// BroadcastSnapshot hands a fresh collection snapshot to the fan-out loop.
func (m *Manager) BroadcastSnapshot(col entity.Collection, items []entity.Item) {
	m.snapshots <- collectionSnapshot{collection: col, items: items}
}

func (m *Manager) send(client *Client, items []entity.Item) {
	payload, err := json.Marshal(snapshotMessage{
		Type:       "snapshot",
		Collection: client.Collection,
		Items:      m.filter(items, client.SearchTerm, client.Category),
	})
	if err != nil {
		logger.Error("Failed to marshal snapshot for client %s: %v", client.ID, err)
		return
	}

	select {
	case client.Send <- payload:
	default:
		// Slow consumer: drop the connection rather than block the hub.
		m.mutex.Lock()
		if _, ok := m.clients[client.Collection][client]; ok {
			delete(m.clients[client.Collection], client)
			close(client.Send)
		}
		m.mutex.Unlock()
	}
}

// ReadPump drains the connection and unregisters the client on close.
// Feed clients do not send application messages.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Feed client %s read error: %v", c.ID, err)
			}
			break
		}
	}
}

// WritePump sends queued snapshots to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn("Feed client %s write error: %v", c.ID, err)
			return
		}
	}
}
