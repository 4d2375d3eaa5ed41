package usecase

import (
	"context"

	"campusfound/internal/domain/entity"
	"campusfound/internal/domain/repository"
	"campusfound/internal/infrastructure/viewcache"
)

type DashboardStats struct {
	FoundItems int `json:"foundItems"`
	LostItems  int `json:"lostItems"`
	Resolved   int `json:"resolved"`
	Reported   int `json:"reported"`
}

type DashboardUseCase struct {
	itemRepo  repository.ItemRepository
	viewCache *viewcache.Cache
}

func NewDashboardUseCase(itemRepo repository.ItemRepository, viewCache *viewcache.Cache) *DashboardUseCase {
	return &DashboardUseCase{
		itemRepo:  itemRepo,
		viewCache: viewCache,
	}
}

func (uc *DashboardUseCase) GetStats(ctx context.Context) (*DashboardStats, error) {
	if cached, ok := uc.viewCache.Get("dashboard"); ok {
		return cached.(*DashboardStats), nil
	}

	found, err := uc.itemRepo.List(ctx, entity.CollectionFoundItems)
	if err != nil {
		return nil, err
	}
	lost, err := uc.itemRepo.List(ctx, entity.CollectionLostItems)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		FoundItems: len(found),
		LostItems:  len(lost),
	}
	for _, items := range [][]entity.Item{found, lost} {
		for _, item := range items {
			if item.Base().Resolved {
				stats.Resolved++
			}
			if item.Base().Reported {
				stats.Reported++
			}
		}
	}

	uc.viewCache.Set("dashboard", stats)
	return stats, nil
}
