package usecase

import (
	"context"

	"campusfound/internal/domain/entity"
	"campusfound/internal/domain/repository"
	ws "campusfound/internal/infrastructure/websocket"
	"campusfound/pkg/logger"
)

// FeedUseCase bridges the repository's live subscriptions to the WebSocket
// hub: one standing subscription per collection, each delivered snapshot
// fanned out to the clients watching that collection.
type FeedUseCase struct {
	itemRepo  repository.ItemRepository
	wsManager *ws.Manager
	subs      []repository.Subscription
}

func NewFeedUseCase(itemRepo repository.ItemRepository, wsManager *ws.Manager) *FeedUseCase {
	return &FeedUseCase{
		itemRepo:  itemRepo,
		wsManager: wsManager,
	}
}

// Start opens both live subscriptions and pumps their snapshots into the
// hub until ctx is cancelled or the subscription fails terminally. A failed
// feed stops delivering; connected clients keep their last snapshot.
func (uc *FeedUseCase) Start(ctx context.Context) error {
	for _, col := range []entity.Collection{entity.CollectionFoundItems, entity.CollectionLostItems} {
		sub, err := uc.itemRepo.Subscribe(ctx, col)
		if err != nil {
			uc.Stop()
			return err
		}
		uc.subs = append(uc.subs, sub)

		go func(col entity.Collection, sub repository.Subscription) {
			for snap := range sub.Snapshots() {
				uc.wsManager.BroadcastSnapshot(snap.Collection, snap.Items)
			}
			if err := sub.Err(); err != nil {
				logger.Error("Live feed for %s ended: %v", col, err)
			}
		}(col, sub)
	}

	return nil
}

// Stop tears down the subscriptions; safe to call more than once.
func (uc *FeedUseCase) Stop() {
	for _, sub := range uc.subs {
		sub.Unsubscribe()
	}
}
