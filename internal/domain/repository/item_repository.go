package repository

import (
	"context"

	"campusfound/internal/domain/entity"
)

// Snapshot is the full current content of a collection, ordered by
// createdAt descending. Subscriptions always deliver whole snapshots,
// never diffs.
type Snapshot struct {
	Collection entity.Collection
	Items      []entity.Item
}

// Subscription is a standing live query against one collection.
//
// Snapshots() yields the initial result set followed by a fresh snapshot on
// every remote change. The channel is closed when the subscription ends;
// if it ended because of a transport failure, Err() returns it. A failed
// subscription is terminal and is never retried here.
//
// Unsubscribe is idempotent and stops all future delivery.
type Subscription interface {
	Snapshots() <-chan Snapshot
	Err() error
	Unsubscribe()
}

type ItemRepository interface {
	CreateFound(ctx context.Context, item *entity.FoundItem) error
	CreateLost(ctx context.Context, item *entity.LostItem) error
	GetByID(ctx context.Context, col entity.Collection, id string) (entity.Item, error)
	List(ctx context.Context, col entity.Collection) ([]entity.Item, error)
	Resolve(ctx context.Context, col entity.Collection, id string) error
	Report(ctx context.Context, col entity.Collection, id, reason string) error
	Subscribe(ctx context.Context, col entity.Collection) (Subscription, error)
}
