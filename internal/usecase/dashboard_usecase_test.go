package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusfound/internal/adapter/repository"
	"campusfound/internal/domain/entity"
	"campusfound/internal/infrastructure/viewcache"
)

func TestDashboardStats(t *testing.T) {
	repo := repository.NewMemoryItemRepository()
	cache := viewcache.New(time.Minute)
	itemUC := NewItemUseCase(repo, &fakeUploader{}, cache)
	dashUC := NewDashboardUseCase(repo, cache)
	ctx := context.Background()

	found, err := itemUC.SubmitFoundItem(ctx, validFoundInput(), nil)
	require.NoError(t, err)
	_, err = itemUC.PostLostItem(ctx, validLostInput())
	require.NoError(t, err)

	stats, err := dashUC.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FoundItems)
	assert.Equal(t, 1, stats.LostItems)
	assert.Equal(t, 0, stats.Resolved)
	assert.Equal(t, 0, stats.Reported)

	// Moderation invalidates the cached stats.
	require.NoError(t, itemUC.ResolveItem(ctx, entity.CollectionFoundItems, found.ID))

	stats, err = dashUC.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Resolved)
}

func TestDashboardStatsServedFromCache(t *testing.T) {
	repo := repository.NewMemoryItemRepository()
	cache := viewcache.New(time.Minute)
	dashUC := NewDashboardUseCase(repo, cache)
	ctx := context.Background()

	stats, err := dashUC.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FoundItems)

	// A write bypassing the usecases does not invalidate the cache, so the
	// cached zero-count view is returned until the TTL lapses.
	require.NoError(t, repo.CreateFound(ctx, &entity.FoundItem{
		ItemBase:      entity.ItemBase{Description: "written behind the cache", ContactInfo: "x@x.edu"},
		LocationFound: "Anywhere",
	}))

	stats, err = dashUC.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FoundItems)
}
