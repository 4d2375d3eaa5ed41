package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusfound/internal/domain/entity"
	"campusfound/internal/domain/repository"
	"campusfound/pkg/errors"
)

// MemoryItemRepository implements the same contract as the Firestore
// repository against process memory. Tests inject it wherever an
// ItemRepository is expected so the core stays testable without a live
// backend.
type MemoryItemRepository struct {
	mu    sync.Mutex
	found map[string]*entity.FoundItem
	lost  map[string]*entity.LostItem
	clock time.Time
	subs  map[entity.Collection]map[*memorySubscription]struct{}
}

func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{
		found: make(map[string]*entity.FoundItem),
		lost:  make(map[string]*entity.LostItem),
		subs: map[entity.Collection]map[*memorySubscription]struct{}{
			entity.CollectionFoundItems: {},
			entity.CollectionLostItems:  {},
		},
	}
}

// serverNow stands in for the backend-assigned write timestamp: strictly
// increasing regardless of the wall clock, so insertion order and
// createdAt order never disagree.
func (r *MemoryItemRepository) serverNow() time.Time {
	now := time.Now()
	if !now.After(r.clock) {
		now = r.clock.Add(time.Nanosecond)
	}
	r.clock = now
	return now
}

func (r *MemoryItemRepository) CreateFound(ctx context.Context, item *entity.FoundItem) error {
	r.mu.Lock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = r.serverNow()
	clone := *item
	r.found[item.ID] = &clone
	r.mu.Unlock()

	r.broadcast(entity.CollectionFoundItems)
	return nil
}

func (r *MemoryItemRepository) CreateLost(ctx context.Context, item *entity.LostItem) error {
	r.mu.Lock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = r.serverNow()
	clone := *item
	r.lost[item.ID] = &clone
	r.mu.Unlock()

	r.broadcast(entity.CollectionLostItems)
	return nil
}

func (r *MemoryItemRepository) GetByID(ctx context.Context, col entity.Collection, id string) (entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.lookup(col, id)
	if err != nil {
		return nil, err
	}
	return cloneItem(item), nil
}

func (r *MemoryItemRepository) List(ctx context.Context, col entity.Collection) ([]entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(col), nil
}

func (r *MemoryItemRepository) Resolve(ctx context.Context, col entity.Collection, id string) error {
	r.mu.Lock()
	item, err := r.lookup(col, id)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	item.Base().Resolved = true
	r.mu.Unlock()

	r.broadcast(col)
	return nil
}

func (r *MemoryItemRepository) Report(ctx context.Context, col entity.Collection, id, reason string) error {
	r.mu.Lock()
	item, err := r.lookup(col, id)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if item.Base().Reported {
		r.mu.Unlock()
		return errors.Conflict("Item has already been reported")
	}
	item.Base().Reported = true
	item.Base().ReportReason = reason
	r.mu.Unlock()

	r.broadcast(col)
	return nil
}

func (r *MemoryItemRepository) Subscribe(ctx context.Context, col entity.Collection) (repository.Subscription, error) {
	sub := &memorySubscription{
		repo: r,
		col:  col,
		ch:   make(chan repository.Snapshot, 1),
		done: make(chan struct{}),
	}

	r.mu.Lock()
	r.subs[col][sub] = struct{}{}
	initial := repository.Snapshot{Collection: col, Items: r.snapshotLocked(col)}
	r.mu.Unlock()

	sub.deliver(initial)

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				sub.Unsubscribe()
			case <-sub.done:
			}
		}()
	}

	return sub, nil
}

func (r *MemoryItemRepository) lookup(col entity.Collection, id string) (entity.Item, error) {
	switch col {
	case entity.CollectionLostItems:
		if item, ok := r.lost[id]; ok {
			return item, nil
		}
	default:
		if item, ok := r.found[id]; ok {
			return item, nil
		}
	}
	return nil, errors.NotFound("Item", nil)
}

func (r *MemoryItemRepository) snapshotLocked(col entity.Collection) []entity.Item {
	items := make([]entity.Item, 0)
	switch col {
	case entity.CollectionLostItems:
		for _, item := range r.lost {
			items = append(items, cloneItem(item))
		}
	default:
		for _, item := range r.found {
			items = append(items, cloneItem(item))
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Base().CreatedAt.After(items[j].Base().CreatedAt)
	})
	return items
}

func (r *MemoryItemRepository) broadcast(col entity.Collection) {
	r.mu.Lock()
	snap := repository.Snapshot{Collection: col, Items: r.snapshotLocked(col)}
	subs := make([]*memorySubscription, 0, len(r.subs[col]))
	for sub := range r.subs[col] {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(snap)
	}
}

func cloneItem(item entity.Item) entity.Item {
	switch v := item.(type) {
	case *entity.FoundItem:
		clone := *v
		return &clone
	case *entity.LostItem:
		clone := *v
		return &clone
	}
	return item
}

type memorySubscription struct {
	repo *MemoryItemRepository
	col  entity.Collection
	ch   chan repository.Snapshot
	done chan struct{}
	once sync.Once

	sendMu sync.Mutex
	closed bool
}

// deliver coalesces to the latest snapshot when the consumer lags.
func (s *memorySubscription) deliver(snap repository.Snapshot) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- snap:
	default:
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- snap:
		default:
		}
	}
}

func (s *memorySubscription) Snapshots() <-chan repository.Snapshot {
	return s.ch
}

func (s *memorySubscription) Err() error {
	return nil
}

func (s *memorySubscription) Unsubscribe() {
	s.once.Do(func() {
		s.repo.mu.Lock()
		delete(s.repo.subs[s.col], s)
		s.repo.mu.Unlock()

		s.sendMu.Lock()
		s.closed = true
		close(s.ch)
		s.sendMu.Unlock()

		close(s.done)
	})
}
