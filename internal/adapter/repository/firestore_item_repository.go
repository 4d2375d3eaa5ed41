package repository

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusfound/internal/domain/entity"
	"campusfound/internal/domain/repository"
	"campusfound/pkg/errors"
	"campusfound/pkg/logger"
)

type firestoreItemRepository struct {
	client *firestore.Client
}

func NewFirestoreItemRepository(client *firestore.Client) repository.ItemRepository {
	return &firestoreItemRepository{
		client: client,
	}
}

func (r *firestoreItemRepository) CreateFound(ctx context.Context, item *entity.FoundItem) error {
	if item.ID == "" {
		doc := r.client.Collection(string(entity.CollectionFoundItems)).NewDoc()
		item.ID = doc.ID
	}

	// createdAt carries the serverTimestamp tag; the zero value is replaced
	// by the server at write time so ordering is consistent across clients.
	_, err := r.client.Collection(string(entity.CollectionFoundItems)).Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create found item", err)
	}

	return nil
}

func (r *firestoreItemRepository) CreateLost(ctx context.Context, item *entity.LostItem) error {
	if item.ID == "" {
		doc := r.client.Collection(string(entity.CollectionLostItems)).NewDoc()
		item.ID = doc.ID
	}

	_, err := r.client.Collection(string(entity.CollectionLostItems)).Doc(item.ID).Set(ctx, item)
	if err != nil {
		return errors.Internal("Failed to create lost item", err)
	}

	return nil
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, col entity.Collection, id string) (entity.Item, error) {
	doc, err := r.client.Collection(string(col)).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Item", err)
		}
		return nil, errors.Internal("Failed to get item", err)
	}

	item, err := decodeItem(col, doc)
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *firestoreItemRepository) List(ctx context.Context, col entity.Collection) ([]entity.Item, error) {
	iter := r.client.Collection(string(col)).OrderBy("createdAt", firestore.Desc).Documents(ctx)

	var items []entity.Item
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate items", err)
		}

		item, err := decodeItem(col, doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *firestoreItemRepository) Resolve(ctx context.Context, col entity.Collection, id string) error {
	// Blind set: re-resolving converges to the same state.
	_, err := r.client.Collection(string(col)).Doc(id).Update(ctx, []firestore.Update{
		{Path: "resolved", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Item", err)
		}
		return errors.Internal("Failed to update item status", err)
	}

	return nil
}

func (r *firestoreItemRepository) Report(ctx context.Context, col entity.Collection, id, reason string) error {
	ref := r.client.Collection(string(col)).Doc(id)

	// A transaction guards against a second report overwriting the reason
	// recorded by the first one.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}

		var flags struct {
			Reported bool `firestore:"reported"`
		}
		if err := doc.DataTo(&flags); err != nil {
			return err
		}
		if flags.Reported {
			return errors.Conflict("Item has already been reported")
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "reported", Value: true},
			{Path: "reportReason", Value: reason},
		})
	})
	if err != nil {
		if errors.Is(err, "CONFLICT") {
			return err
		}
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Item", err)
		}
		return errors.Internal("Failed to report item", err)
	}

	return nil
}

func (r *firestoreItemRepository) Subscribe(ctx context.Context, col entity.Collection) (repository.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	query := r.client.Collection(string(col)).OrderBy("createdAt", firestore.Desc)
	sub := &firestoreSubscription{
		col:    col,
		iter:   query.Snapshots(ctx),
		ch:     make(chan repository.Snapshot, 1),
		cancel: cancel,
	}

	go sub.pump(ctx)

	return sub, nil
}

type firestoreSubscription struct {
	col    entity.Collection
	iter   *firestore.QuerySnapshotIterator
	ch     chan repository.Snapshot
	cancel context.CancelFunc
	once   sync.Once

	mu  sync.Mutex
	err error
}

func (s *firestoreSubscription) pump(ctx context.Context) {
	defer close(s.ch)
	defer s.iter.Stop()

	for {
		snap, err := s.iter.Next()
		if err != nil {
			if ctx.Err() == nil {
				// Terminal transport failure; surfaced once, no retry.
				logger.Error("Live query on %s failed: %v", s.col, err)
				s.setErr(errors.Internal("Live query failed", err))
			}
			return
		}

		items := make([]entity.Item, 0, snap.Size)
		docs := snap.Documents
		for {
			doc, err := docs.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				logger.Error("Live query on %s failed while reading documents: %v", s.col, err)
				s.setErr(errors.Internal("Live query failed", err))
				return
			}

			item, err := decodeItem(s.col, doc)
			if err != nil {
				// A single malformed document must not poison the snapshot.
				logger.Warn("Skipping malformed document %s in %s: %v", doc.Ref.ID, s.col, err)
				continue
			}
			items = append(items, item)
		}

		s.deliver(repository.Snapshot{Collection: s.col, Items: items})
	}
}

// deliver coalesces to the latest snapshot when the consumer lags.
func (s *firestoreSubscription) deliver(snap repository.Snapshot) {
	select {
	case s.ch <- snap:
	default:
		select {
		case <-s.ch:
		default:
		}
		s.ch <- snap
	}
}

func (s *firestoreSubscription) Snapshots() <-chan repository.Snapshot {
	return s.ch
}

func (s *firestoreSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *firestoreSubscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *firestoreSubscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

func decodeItem(col entity.Collection, doc *firestore.DocumentSnapshot) (entity.Item, error) {
	var item entity.Item

	switch col {
	case entity.CollectionLostItems:
		var lost entity.LostItem
		if err := doc.DataTo(&lost); err != nil {
			return nil, errors.Internal("Failed to parse lost item data", err)
		}
		lost.ID = doc.Ref.ID
		item = &lost
	default:
		var found entity.FoundItem
		if err := doc.DataTo(&found); err != nil {
			return nil, errors.Internal("Failed to parse found item data", err)
		}
		found.ID = doc.Ref.ID
		item = &found
	}

	// A document written moments ago may not have its server timestamp
	// materialized yet; fall back to now instead of failing the snapshot.
	if item.Base().CreatedAt.IsZero() {
		item.Base().CreatedAt = time.Now()
	}

	return item, nil
}
