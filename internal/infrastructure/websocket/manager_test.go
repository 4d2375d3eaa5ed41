package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusfound/internal/domain/entity"
)

func substringFilter(items []entity.Item, searchTerm, category string) []entity.Item {
	filtered := make([]entity.Item, 0, len(items))
	for _, item := range items {
		if searchTerm == "" || strings.Contains(strings.ToLower(item.Base().Description), strings.ToLower(searchTerm)) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func snapshotItems(description ...string) []entity.Item {
	items := make([]entity.Item, 0, len(description))
	for _, d := range description {
		items = append(items, &entity.FoundItem{
			ItemBase: entity.ItemBase{Description: d},
		})
	}
	return items
}

type receivedSnapshot struct {
	Type       string            `json:"type"`
	Collection entity.Collection `json:"collection"`
	Items      []entity.FoundItem `json:"items"`
}

func receivePayload(t *testing.T, client *Client) receivedSnapshot {
	t.Helper()
	select {
	case payload := <-client.Send:
		var msg receivedSnapshot
		require.NoError(t, json.Unmarshal(payload, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot payload")
		return receivedSnapshot{}
	}
}

func newTestClient(col entity.Collection, searchTerm string) *Client {
	return &Client{
		ID:         "test-client",
		Collection: col,
		SearchTerm: searchTerm,
		Category:   "all",
		Send:       make(chan []byte, 8),
	}
}

func TestBroadcastReachesCollectionClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(substringFilter)
	m.Start(ctx)

	foundClient := newTestClient(entity.CollectionFoundItems, "")
	lostClient := newTestClient(entity.CollectionLostItems, "")
	m.Register <- foundClient
	m.Register <- lostClient

	m.BroadcastSnapshot(entity.CollectionFoundItems, snapshotItems("Blue backpack", "Red backpack"))

	msg := receivePayload(t, foundClient)
	assert.Equal(t, "snapshot", msg.Type)
	assert.Equal(t, entity.CollectionFoundItems, msg.Collection)
	assert.Len(t, msg.Items, 2)

	// The lost-items client sees nothing.
	select {
	case <-lostClient.Send:
		t.Fatal("lost-items client received a found-items snapshot")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSnapshotsAreFilteredPerClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(substringFilter)
	m.Start(ctx)

	client := newTestClient(entity.CollectionFoundItems, "blue")
	m.Register <- client

	m.BroadcastSnapshot(entity.CollectionFoundItems, snapshotItems("Blue backpack", "Red backpack"))

	msg := receivePayload(t, client)
	require.Len(t, msg.Items, 1)
	assert.Equal(t, "Blue backpack", msg.Items[0].Description)
}

func TestLateJoinerGetsCurrentSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(substringFilter)
	m.Start(ctx)

	m.BroadcastSnapshot(entity.CollectionFoundItems, snapshotItems("Black wallet"))

	// Give the fan-out loop a moment to record the snapshot.
	time.Sleep(20 * time.Millisecond)

	client := newTestClient(entity.CollectionFoundItems, "")
	m.Register <- client

	msg := receivePayload(t, client)
	require.Len(t, msg.Items, 1)
}

func TestEmptyFilteredSnapshotIsExplicit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(substringFilter)
	m.Start(ctx)

	client := newTestClient(entity.CollectionFoundItems, "umbrella")
	m.Register <- client

	m.BroadcastSnapshot(entity.CollectionFoundItems, snapshotItems("Blue backpack"))

	select {
	case payload := <-client.Send:
		assert.Contains(t, string(payload), `"items":[]`)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot payload")
	}
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager(substringFilter)
	m.Start(ctx)

	client := newTestClient(entity.CollectionFoundItems, "")
	m.Register <- client
	m.Unregister <- client

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}
}
